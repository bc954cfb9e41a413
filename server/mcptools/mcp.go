package mcptools

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tmc/langchaingo/tools"

	"github.com/shahidain/mcp-server/llm"
	"github.com/shahidain/mcp-server/profile"
)

// Typed tool inputs. The SDK infers the JSON schema advertised to clients
// from these structs.

type listInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of records to return (default 10)"`
	Skip  int `json:"skip,omitempty" jsonschema:"number of records to skip (default 0)"`
}

type idInput struct {
	ID int `json:"id" jsonschema:"numeric record id, must be positive"`
}

type queryInput struct {
	Query string `json:"query" jsonschema:"keyword or phrase to search for"`
}

type emptyInput struct{}

type categoryInput struct {
	Category string `json:"category" jsonschema:"catalog category slug, e.g. home-decoration"`
}

type createIssueInput struct {
	Project     string `json:"project,omitempty" jsonschema:"Jira project key, defaults to the configured project"`
	Summary     string `json:"summary" jsonschema:"one-line issue summary"`
	IssueType   string `json:"issuetype,omitempty" jsonschema:"issue type name such as Bug, Task or Story"`
	Description string `json:"description,omitempty" jsonschema:"longer issue description"`
}

type appStatusInput struct {
	AppName string `json:"appName" jsonschema:"application name, e.g. boss-service"`
	Env     string `json:"env" jsonschema:"environment: dev, test or prod"`
}

// NewServer builds the MCP server with every tool registered.
func NewServer(p profile.Profile, deps Deps) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "mcp-server", Version: p.Version}, nil)
	reg := Registry(deps)

	addTool[listInput](srv, reg, llm.ToolGetVendors)
	addTool[idInput](srv, reg, llm.ToolGetVendorByID)
	addTool[queryInput](srv, reg, llm.ToolSearchVendors)

	addTool[listInput](srv, reg, llm.ToolGetUsers)
	addTool[idInput](srv, reg, llm.ToolGetUserByID)
	addTool[queryInput](srv, reg, llm.ToolSearchUsers)

	addTool[listInput](srv, reg, llm.ToolGetRoles)
	addTool[idInput](srv, reg, llm.ToolGetRoleByID)
	addTool[queryInput](srv, reg, llm.ToolSearchRoles)

	addTool[listInput](srv, reg, llm.ToolGetCommodities)
	addTool[idInput](srv, reg, llm.ToolGetCommodityByID)
	addTool[queryInput](srv, reg, llm.ToolSearchCommodities)

	addTool[listInput](srv, reg, llm.ToolGetCurrencies)
	addTool[idInput](srv, reg, llm.ToolGetCurrencyByID)
	addTool[queryInput](srv, reg, llm.ToolSearchCurrencies)

	addTool[listInput](srv, reg, llm.ToolGetProducts)
	addTool[idInput](srv, reg, llm.ToolGetProductByID)
	addTool[queryInput](srv, reg, llm.ToolSearchProducts)
	addTool[emptyInput](srv, reg, toolGetProductCategories)
	addTool[categoryInput](srv, reg, toolGetProductsByCategory)

	addTool[idInput](srv, reg, llm.ToolGetJiraIssue)
	addTool[queryInput](srv, reg, llm.ToolSearchJiraIssues)
	addTool[createIssueInput](srv, reg, llm.ToolCreateJiraIssue)

	addTool[appStatusInput](srv, reg, llm.ToolGetAppStatus)

	return srv
}

// Run serves the tool set over stdio until the client disconnects.
func Run(ctx context.Context, p profile.Profile, deps Deps) error {
	return NewServer(p, deps).Run(ctx, &mcp.StdioTransport{})
}

// addTool bridges a shared langchaingo tool into the SDK: the typed input
// is re-encoded as the JSON object the tool's Call expects.
func addTool[In any](srv *mcp.Server, reg map[string]tools.Tool, name string) {
	t := reg[name]
	mcp.AddTool(srv, &mcp.Tool{Name: name, Description: t.Description()},
		func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
			body, err := json.Marshal(in)
			if err != nil {
				return nil, nil, err
			}
			out, err := t.Call(ctx, string(body))
			if err != nil {
				return &mcp.CallToolResult{
					IsError: true,
					Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
				}, nil, nil
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: out}},
			}, nil, nil
		})
}
