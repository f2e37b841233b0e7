package crm

import (
	"errors"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/charlesng35/bizsuite/internal/models"
	"github.com/charlesng35/bizsuite/internal/permissions"
)

var entityModules = map[string]string{
	permissions.EntityLead:        permissions.ModuleLeads,
	permissions.EntityContact:     permissions.ModuleContacts,
	permissions.EntityAccount:     permissions.ModuleAccounts,
	permissions.EntityOpportunity: permissions.ModuleOpportunities,
}

// ModuleFor returns the permission module that guards entityType.
func ModuleFor(entityType string) (string, bool) {
	module, ok := entityModules[entityType]
	return module, ok
}

// Repositories bundles the record repositories of the CRM.
type Repositories struct {
	Leads         *Repository[models.Lead]
	Contacts      *Repository[models.Contact]
	Accounts      *Repository[models.Account]
	Opportunities *Repository[models.Opportunity]
}

// NewRepositories constructs a repository per record type.
func NewRepositories(db *gorm.DB) (*Repositories, error) {
	if db == nil {
		return nil, errors.New("crm: db is required")
	}

	leads, err := newRepository(db, permissions.EntityLead, permissions.ModuleLeads,
		func(l *models.Lead) (*models.BaseModel, *uint) { return &l.BaseModel, &l.OwnerID })
	if err != nil {
		return nil, err
	}
	contacts, err := newRepository(db, permissions.EntityContact, permissions.ModuleContacts,
		func(c *models.Contact) (*models.BaseModel, *uint) { return &c.BaseModel, &c.OwnerID })
	if err != nil {
		return nil, err
	}
	accounts, err := newRepository(db, permissions.EntityAccount, permissions.ModuleAccounts,
		func(a *models.Account) (*models.BaseModel, *uint) { return &a.BaseModel, &a.OwnerID })
	if err != nil {
		return nil, err
	}
	opportunities, err := newRepository(db, permissions.EntityOpportunity, permissions.ModuleOpportunities,
		func(o *models.Opportunity) (*models.BaseModel, *uint) { return &o.BaseModel, &o.OwnerID })
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Leads:         leads,
		Contacts:      contacts,
		Accounts:      accounts,
		Opportunities: opportunities,
	}, nil
}

// Register binds each record type's owner lookup into registry.
func (r *Repositories) Register(registry *permissions.EntityRegistry) error {
	if registry == nil {
		return errors.New("crm: registry is required")
	}
	return multierr.Combine(
		registry.Register(r.Leads.EntityType(), r.Leads.Lookup),
		registry.Register(r.Contacts.EntityType(), r.Contacts.Lookup),
		registry.Register(r.Accounts.EntityType(), r.Accounts.Lookup),
		registry.Register(r.Opportunities.EntityType(), r.Opportunities.Lookup),
	)
}

// RegisterEntities wires GORM-backed lookups for every CRM record type.
func RegisterEntities(registry *permissions.EntityRegistry, db *gorm.DB) (*Repositories, error) {
	repos, err := NewRepositories(db)
	if err != nil {
		return nil, err
	}
	if err := repos.Register(registry); err != nil {
		return nil, err
	}
	return repos, nil
}
