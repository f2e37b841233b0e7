package permissions

// Names of the built-in modules referenced by the default policy matrix.
const (
	ModuleDashboard      = "dashboard"
	ModuleContacts       = "contacts"
	ModuleAccounts       = "accounts"
	ModuleLeads          = "leads"
	ModuleOpportunities  = "opportunities"
	ModuleTasks          = "tasks"
	ModuleEvents         = "events"
	ModuleCommunications = "communications"
	ModuleInvoices       = "invoices"
	ModuleQuotes         = "quotes"
	ModuleProducts       = "products"
	ModuleInventory      = "inventory"
	ModuleEcommerce      = "ecommerce"
	ModuleWorkflows      = "workflows"
	ModuleSubscriptions  = "subscriptions"
	ModuleReports        = "reports"
	ModuleTeams          = "teams"
	ModuleUsers          = "users"
	ModuleSettings       = "settings"
)

func init() {
	defs := []*ModuleDefinition{
		{Name: ModuleDashboard, DisplayName: "Dashboard", Description: "Overview widgets and KPIs"},
		{Name: ModuleContacts, DisplayName: "Contacts", Description: "People the organisation works with"},
		{Name: ModuleAccounts, DisplayName: "Accounts", Description: "Customer organisations"},
		{Name: ModuleLeads, DisplayName: "Leads", Description: "Prospective customers"},
		{Name: ModuleOpportunities, DisplayName: "Opportunities", Description: "Deals in the sales pipeline"},
		{Name: ModuleTasks, DisplayName: "Tasks", Description: "Follow-ups and to-dos"},
		{Name: ModuleEvents, DisplayName: "Events", Description: "Meetings and calendar events"},
		{Name: ModuleCommunications, DisplayName: "Communications", Description: "Emails, calls and social messages"},
		{Name: ModuleInvoices, DisplayName: "Invoices", Description: "Billing documents"},
		{Name: ModuleQuotes, DisplayName: "Quotes", Description: "Price proposals"},
		{Name: ModuleProducts, DisplayName: "Products", Description: "Product catalogue"},
		{Name: ModuleInventory, DisplayName: "Inventory", Description: "Stock levels and movements"},
		{Name: ModuleEcommerce, DisplayName: "E-commerce", Description: "Store integrations and orders"},
		{Name: ModuleWorkflows, DisplayName: "Workflows", Description: "Automation rules"},
		{Name: ModuleSubscriptions, DisplayName: "Subscriptions", Description: "Plans and recurring billing"},
		{Name: ModuleReports, DisplayName: "Reports", Description: "Analytics and exports"},
		{Name: ModuleTeams, DisplayName: "Teams", Description: "Team management"},
		{Name: ModuleUsers, DisplayName: "Users", Description: "User administration"},
		{Name: ModuleSettings, DisplayName: "Settings", Description: "System configuration"},
	}

	for i, def := range defs {
		def.Order = (i + 1) * 10
		if err := RegisterModule(def); err != nil {
			panic(err)
		}
	}
}
