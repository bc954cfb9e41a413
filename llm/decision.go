package llm

// DataFormat enumerates the presentation shapes a tool result can take.
type DataFormat string

const (
	MarkdownTable DataFormat = "markdown-table"
	MarkdownText  DataFormat = "markdown-text"
	PieChart      DataFormat = "pie"
	BarChart      DataFormat = "bar"
	LineChart     DataFormat = "line"
	ScatterChart  DataFormat = "scatter"
)

// IsChart reports whether the format is one of the chart kinds. The renderer
// gates the one-shot chart path on this check rather than trusting the value
// echoed back by the model.
func (f DataFormat) IsChart() bool {
	switch f {
	case PieChart, BarChart, LineChart, ScatterChart:
		return true
	}
	return false
}

// Tool identifiers the router may select. The dispatcher maps each to
// exactly one data-access collaborator.
const (
	ToolGetVendors        = "get-vendors"
	ToolGetVendorByID     = "get-vendor-by-id"
	ToolSearchVendors     = "search-vendors"
	ToolGetUsers          = "get-users"
	ToolGetUserByID       = "get-user-by-id"
	ToolSearchUsers       = "search-users"
	ToolGetRoles          = "get-roles"
	ToolGetRoleByID       = "get-role-by-id"
	ToolSearchRoles       = "search-roles"
	ToolGetCommodities    = "get-commodities"
	ToolGetCommodityByID  = "get-commodity-by-id"
	ToolSearchCommodities = "search-commodities"
	ToolGetCurrencies     = "get-currencies"
	ToolGetCurrencyByID   = "get-currency-by-id"
	ToolSearchCurrencies  = "search-currencies"
	ToolGetProducts       = "get-products"
	ToolGetProductByID    = "get-product-by-id"
	ToolSearchProducts    = "search-products"
	ToolGetJiraIssue      = "get-jira-issue-by-id"
	ToolSearchJiraIssues  = "search-jira-issues"
	ToolCreateJiraIssue   = "create-jira-issue"
	ToolGetAppStatus      = "get-application-status"
)

// Parameters is the named-argument bag attached to a routing decision.
// Tool-specific fields are zero-valued when absent.
type Parameters struct {
	ID          int    `json:"id,omitempty"`
	Query       string `json:"query,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Skip        int    `json:"skip,omitempty"`
	Project     string `json:"project,omitempty"`
	Summary     string `json:"summary,omitempty"`
	IssueType   string `json:"issuetype,omitempty"`
	Description string `json:"description,omitempty"`
	AppName     string `json:"appName,omitempty"`
	Env         string `json:"env,omitempty"`
	Category    string `json:"category,omitempty"`
}

// ToolDecision is the router's structured output for one inbound message.
// Invariant: when Tool is empty, ResponseText is non-empty; the pipeline
// always produces some user-visible content.
type ToolDecision struct {
	Tool            string     `json:"tool"`
	Parameters      Parameters `json:"parameters"`
	RequestedFormat DataFormat `json:"requested_format"`
	ResponseText    string     `json:"response_text"`
}
