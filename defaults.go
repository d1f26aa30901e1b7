package teamkit

// DefaultPermissions is the full permission catalog grouped by category.
func DefaultPermissions() []Permission {
	return []Permission{
		// Event management
		{ID: "view_events", Name: "View Events", Description: "View event details and listings", Category: CategoryEvents},
		{ID: "create_events", Name: "Create Events", Description: "Create new events", Category: CategoryEvents},
		{ID: "edit_events", Name: "Edit Events", Description: "Modify event details and settings", Category: CategoryEvents},
		{ID: "delete_events", Name: "Delete Events", Description: "Delete events", Category: CategoryEvents},
		{ID: "publish_events", Name: "Publish Events", Description: "Publish and unpublish events", Category: CategoryEvents},
		{ID: "manage_event_settings", Name: "Manage Event Settings", Description: "Configure event-specific settings", Category: CategoryEvents},

		// Financial
		{ID: "view_financial", Name: "View Financial Data", Description: "View revenue and financial reports", Category: CategoryFinancial},
		{ID: "manage_pricing", Name: "Manage Pricing", Description: "Set and modify ticket prices", Category: CategoryFinancial},
		{ID: "process_refunds", Name: "Process Refunds", Description: "Handle refund requests", Category: CategoryFinancial},
		{ID: "view_analytics", Name: "View Analytics", Description: "Access financial analytics and reports", Category: CategoryFinancial},
		{ID: "export_financial", Name: "Export Financial Data", Description: "Export financial reports and data", Category: CategoryFinancial},

		// Attendee management
		{ID: "view_attendees", Name: "View Attendees", Description: "View attendee lists and information", Category: CategoryAttendees},
		{ID: "manage_checkin", Name: "Manage Check-in", Description: "Handle event check-in process", Category: CategoryAttendees},
		{ID: "export_attendees", Name: "Export Attendee Data", Description: "Export attendee information", Category: CategoryAttendees},
		{ID: "send_communications", Name: "Send Communications", Description: "Send emails and notifications to attendees", Category: CategoryAttendees},
		{ID: "manage_waitlist", Name: "Manage Waitlist", Description: "Handle event waitlist management", Category: CategoryAttendees},

		// Marketing
		{ID: "manage_campaigns", Name: "Manage Campaigns", Description: "Create and manage marketing campaigns", Category: CategoryMarketing},
		{ID: "manage_social", Name: "Manage Social Media", Description: "Handle social media promotion", Category: CategoryMarketing},
		{ID: "view_marketing_analytics", Name: "View Marketing Analytics", Description: "Access marketing performance data", Category: CategoryMarketing},
		{ID: "manage_promo_codes", Name: "Manage Promo Codes", Description: "Create and manage promotional codes", Category: CategoryMarketing},
		{ID: "manage_collections", Name: "Manage Collections", Description: "Create and manage event collections", Category: CategoryMarketing},

		// Team management
		{ID: "view_team", Name: "View Team", Description: "View team members and their roles", Category: CategoryTeam},
		{ID: "manage_team", Name: "Manage Team", Description: "Add, remove, and manage team members", Category: CategoryTeam},
		{ID: "assign_roles", Name: "Assign Roles", Description: "Assign and modify team member roles", Category: CategoryTeam},
		{ID: "view_activity_logs", Name: "View Activity Logs", Description: "Access team activity and audit logs", Category: CategoryTeam},
		{ID: "manage_permissions", Name: "Manage Permissions", Description: "Create and manage custom permission sets", Category: CategoryTeam},

		// Settings
		{ID: "manage_integrations", Name: "Manage Integrations", Description: "Configure third-party integrations", Category: CategorySettings},
		{ID: "manage_notifications", Name: "Manage Notifications", Description: "Configure notification settings", Category: CategorySettings},
		{ID: "view_system_settings", Name: "View System Settings", Description: "Access system configuration", Category: CategorySettings},
		{ID: "manage_api_keys", Name: "Manage API Keys", Description: "Generate and manage API keys", Category: CategorySettings},
	}
}

// DefaultCatalog builds a catalog with the full permission set and the
// predefined roles.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, p := range DefaultPermissions() {
		c.AddPermission(p)
	}

	c.DefineRole(RoleFollower).
		Name("Follower").
		Describe("Basic follower with view-only access to public information").
		Permissions("view_events").
		Color("#6B7280").
		Icon("users").
		DefineRole(RoleSalesAgent).
		Name("Sales Agent").
		Describe("Can manage sales, pricing, customer communications, and financial operations").
		Permissions(
			"view_events", "edit_events", "manage_pricing", "view_attendees",
			"manage_checkin", "send_communications", "manage_promo_codes",
			"view_financial", "process_refunds", "export_attendees", "manage_waitlist",
		).
		Color("#10B981").
		Icon("briefcase").
		DefineRole(RoleEventStaff).
		Name("Event Staff (Scanner)").
		Describe("Can manage events and attendees during event operations with limited access").
		Permissions(
			"view_events", "view_attendees", "manage_checkin",
			"send_communications", "export_attendees", "manage_waitlist",
		).
		Color("#3B82F6").
		Icon("ticket").
		DefineRole(RoleMarketingAssistant).
		Name("Marketing Assistant").
		Describe("Can manage marketing campaigns, social media, and promotional activities").
		Permissions(
			"view_events", "manage_campaigns", "manage_social", "view_marketing_analytics",
			"manage_promo_codes", "send_communications", "manage_collections",
		).
		Color("#8B5CF6").
		Icon("megaphone")

	return c
}
