package auth

const (
	RoleAdvisor = "advisor"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

const (
	PermKPIRead       = "kpi.read"
	PermGoalsRead     = "goals.read"
	PermGoalsWrite    = "goals.write"
	PermGoalRuleWrite = "goals.rule.write"
	PermCallsRead     = "calls.read"
	PermCallsWrite    = "calls.write"
	PermInsightsRead  = "insights.read"
	PermReportsRead   = "reports.read"
	PermSystemAdmin   = "admin.system"
)

var DefaultPermissions = []string{
	PermKPIRead,
	PermGoalsRead,
	PermGoalsWrite,
	PermGoalRuleWrite,
	PermCallsRead,
	PermCallsWrite,
	PermInsightsRead,
	PermReportsRead,
	PermSystemAdmin,
}

// RolePermissions is the seed matrix. Advisors work their own funnel
// and call list; managers additionally own the goal rule and
// company-scope targets.
var RolePermissions = map[string][]string{
	RoleAdvisor: {
		PermKPIRead,
		PermGoalsRead,
		PermGoalsWrite,
		PermCallsRead,
		PermCallsWrite,
		PermInsightsRead,
		PermReportsRead,
	},
	RoleManager: {
		PermKPIRead,
		PermGoalsRead,
		PermGoalsWrite,
		PermGoalRuleWrite,
		PermCallsRead,
		PermCallsWrite,
		PermInsightsRead,
		PermReportsRead,
	},
	RoleAdmin: {
		PermKPIRead,
		PermGoalsRead,
		PermGoalsWrite,
		PermGoalRuleWrite,
		PermCallsRead,
		PermCallsWrite,
		PermInsightsRead,
		PermReportsRead,
		PermSystemAdmin,
	},
}
