// Package mcptools exposes every routable operation as an MCP tool for
// stdio clients. The tool implementations are shared langchaingo tools so
// the HTTP pipeline and the MCP surface call the same code.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/tmc/langchaingo/tools"

	"github.com/shahidain/mcp-server/llm"
	"github.com/shahidain/mcp-server/plugin/appstatus"
	"github.com/shahidain/mcp-server/plugin/catalog"
	"github.com/shahidain/mcp-server/plugin/jira"
	"github.com/shahidain/mcp-server/store"
)

// Deps bundles the collaborators the tools call into.
type Deps struct {
	Store      *store.Store
	Jira       *jira.Client
	Catalog    *catalog.Client
	Apps       *appstatus.Registry
	Translator *llm.Translator
}

// apiTool adapts one operation to the langchaingo tool contract. Input is
// a JSON object matching the llm.Parameters field names.
type apiTool struct {
	name        string
	description string
	run         func(ctx context.Context, p llm.Parameters) (string, error)
}

func (t *apiTool) Name() string        { return t.name }
func (t *apiTool) Description() string { return t.description }

func (t *apiTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("tool call", "tool", t.name, "input", input)
	var p llm.Parameters
	if input != "" {
		if err := json.Unmarshal([]byte(input), &p); err != nil {
			return "Error: input is not a valid JSON object.", nil
		}
	}
	return t.run(ctx, p)
}

func marshal(v any) (string, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Registry builds the full tool set keyed by tool name.
func Registry(deps Deps) map[string]tools.Tool {
	reg := map[string]tools.Tool{}
	add := func(name, description string, run func(ctx context.Context, p llm.Parameters) (string, error)) {
		reg[name] = &apiTool{name: name, description: description, run: run}
	}

	add(llm.ToolGetVendors, "List vendors with optional skip/limit pagination.", func(ctx context.Context, p llm.Parameters) (string, error) {
		rows, err := deps.Store.ListVendors(ctx, p.Skip, p.Limit)
		if err != nil {
			return "", err
		}
		return marshal(rows)
	})
	add(llm.ToolGetVendorByID, "Fetch one vendor by its numeric id.", func(ctx context.Context, p llm.Parameters) (string, error) {
		v, err := deps.Store.GetVendor(ctx, int32(p.ID))
		if err != nil {
			return "", err
		}
		if v == nil {
			return fmt.Sprintf("No vendor found with id %d.", p.ID), nil
		}
		return marshal(v)
	})
	add(llm.ToolSearchVendors, "Search vendors by name, address, contact, email, type or bank code.", func(ctx context.Context, p llm.Parameters) (string, error) {
		rows, err := deps.Store.SearchVendors(ctx, p.Query)
		if err != nil {
			return "", err
		}
		return marshal(rows)
	})

	add(llm.ToolGetUsers, "List users with optional skip/limit pagination.", func(ctx context.Context, p llm.Parameters) (string, error) {
		rows, err := deps.Store.ListUsers(ctx, p.Skip, p.Limit)
		if err != nil {
			return "", err
		}
		return marshal(rows)
	})
	add(llm.ToolGetUserByID, "Fetch one user by its numeric id.", func(ctx context.Context, p llm.Parameters) (string, error) {
		u, err := deps.Store.GetUser(ctx, int32(p.ID))
		if err != nil {
			return "", err
		}
		if u == nil {
			return fmt.Sprintf("No user found with id %d.", p.ID), nil
		}
		return marshal(u)
	})
	add(llm.ToolSearchUsers, "Search users by name, email or username.", func(ctx context.Context, p llm.Parameters) (string, error) {
		rows, err := deps.Store.SearchUsers(ctx, p.Query)
		if err != nil {
			return "", err
		}
		return marshal(rows)
	})

	add(llm.ToolGetRoles, "List roles with optional skip/limit pagination.", func(ctx context.Context, p llm.Parameters) (string, error) {
		rows, err := deps.Store.ListRoles(ctx, p.Skip, p.Limit)
		if err != nil {
			return "", err
		}
		return marshal(rows)
	})
	add(llm.ToolGetRoleByID, "Fetch one role by its numeric id.", func(ctx context.Context, p llm.Parameters) (string, error) {
		r, err := deps.Store.GetRole(ctx, int32(p.ID))
		if err != nil {
			return "", err
		}
		if r == nil {
			return fmt.Sprintf("No role found with id %d.", p.ID), nil
		}
		return marshal(r)
	})
	add(llm.ToolSearchRoles, "Search roles by name.", func(ctx context.Context, p llm.Parameters) (string, error) {
		rows, err := deps.Store.SearchRoles(ctx, p.Query)
		if err != nil {
			return "", err
		}
		return marshal(rows)
	})

	add(llm.ToolGetCommodities, "List commodities with optional skip/limit pagination.", func(ctx context.Context, p llm.Parameters) (string, error) {
		rows, err := deps.Store.ListCommodities(ctx, p.Skip, p.Limit)
		if err != nil {
			return "", err
		}
		return marshal(rows)
	})
	add(llm.ToolGetCommodityByID, "Fetch one commodity by its numeric id.", func(ctx context.Context, p llm.Parameters) (string, error) {
		c, err := deps.Store.GetCommodity(ctx, int32(p.ID))
		if err != nil {
			return "", err
		}
		if c == nil {
			return fmt.Sprintf("No commodity found with id %d.", p.ID), nil
		}
		return marshal(c)
	})
	add(llm.ToolSearchCommodities, "Search commodities by name, code, short name or bank code.", func(ctx context.Context, p llm.Parameters) (string, error) {
		rows, err := deps.Store.SearchCommodities(ctx, p.Query)
		if err != nil {
			return "", err
		}
		return marshal(rows)
	})

	add(llm.ToolGetCurrencies, "List currencies with optional skip/limit pagination.", func(ctx context.Context, p llm.Parameters) (string, error) {
		rows, err := deps.Store.ListCurrencies(ctx, p.Skip, p.Limit)
		if err != nil {
			return "", err
		}
		return marshal(rows)
	})
	add(llm.ToolGetCurrencyByID, "Fetch one currency by its numeric id.", func(ctx context.Context, p llm.Parameters) (string, error) {
		c, err := deps.Store.GetCurrency(ctx, int32(p.ID))
		if err != nil {
			return "", err
		}
		if c == nil {
			return fmt.Sprintf("No currency found with id %d.", p.ID), nil
		}
		return marshal(c)
	})
	add(llm.ToolSearchCurrencies, "Search currencies by name or short name.", func(ctx context.Context, p llm.Parameters) (string, error) {
		rows, err := deps.Store.SearchCurrencies(ctx, p.Query)
		if err != nil {
			return "", err
		}
		return marshal(rows)
	})

	add(llm.ToolGetProducts, "List catalog products with optional skip/limit pagination.", func(ctx context.Context, p llm.Parameters) (string, error) {
		body, err := deps.Catalog.Products(ctx, p.Skip, p.Limit)
		if err != nil {
			return "", err
		}
		return string(body), nil
	})
	add(llm.ToolGetProductByID, "Fetch one catalog product by its numeric id.", func(ctx context.Context, p llm.Parameters) (string, error) {
		body, err := deps.Catalog.ProductByID(ctx, p.ID)
		if err != nil {
			return "", err
		}
		return string(body), nil
	})
	add(llm.ToolSearchProducts, "Search catalog products by keyword.", func(ctx context.Context, p llm.Parameters) (string, error) {
		body, err := deps.Catalog.SearchProducts(ctx, p.Query)
		if err != nil {
			return "", err
		}
		return string(body), nil
	})
	add(toolGetProductCategories, "List all catalog product categories.", func(ctx context.Context, _ llm.Parameters) (string, error) {
		body, err := deps.Catalog.Categories(ctx)
		if err != nil {
			return "", err
		}
		return string(body), nil
	})
	add(toolGetProductsByCategory, "List catalog products in one category.", func(ctx context.Context, p llm.Parameters) (string, error) {
		body, err := deps.Catalog.ProductsByCategory(ctx, p.Category)
		if err != nil {
			return "", err
		}
		return string(body), nil
	})

	add(llm.ToolGetJiraIssue, "Fetch one Jira issue by numeric id.", func(ctx context.Context, p llm.Parameters) (string, error) {
		body, err := deps.Jira.Issue(ctx, strconv.Itoa(p.ID))
		if err != nil {
			return "", err
		}
		return string(body), nil
	})
	add(llm.ToolSearchJiraIssues, "Search Jira issues by natural-language query; the query is translated to JQL first.", func(ctx context.Context, p llm.Parameters) (string, error) {
		jql, err := deps.Translator.Translate(ctx, p.Query)
		if err != nil {
			return "", err
		}
		issues, err := deps.Jira.Search(ctx, jql)
		if err != nil {
			return "", err
		}
		deps.Translator.Save(p.Query, jql)
		body, err := marshal(issues)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Generated JQL: %s\n\n%s", jql, body), nil
	})
	add(llm.ToolCreateJiraIssue, "Create a Jira issue. Requires a summary; project and issuetype fall back to defaults.", func(ctx context.Context, p llm.Parameters) (string, error) {
		created, err := deps.Jira.Create(ctx, jira.CreateIssueInput{
			Project:     p.Project,
			Summary:     p.Summary,
			IssueType:   p.IssueType,
			Description: p.Description,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Issue %s created successfully: %s", created.Key, deps.Jira.BrowseURL(created.Key)), nil
	})

	add(llm.ToolGetAppStatus, "Look up deployment status for an application in one environment (dev, test or prod).", func(ctx context.Context, p llm.Parameters) (string, error) {
		info := deps.Apps.Lookup(ctx, p.AppName, p.Env)
		if info == nil {
			return fmt.Sprintf("No application named %q is known in environment %q.", p.AppName, p.Env), nil
		}
		return marshal(info)
	})

	return reg
}

// Category browsing is only exposed on the MCP surface; the chat router
// folds category questions into search-products instead.
const (
	toolGetProductCategories  = "get-product-categories"
	toolGetProductsByCategory = "get-products-by-category"
)
