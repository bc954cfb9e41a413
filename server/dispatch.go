package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lithammer/shortuuid/v4"

	"github.com/shahidain/mcp-server/llm"
	"github.com/shahidain/mcp-server/plugin/appstatus"
	"github.com/shahidain/mcp-server/plugin/catalog"
	"github.com/shahidain/mcp-server/plugin/jira"
	"github.com/shahidain/mcp-server/store"
)

// fallbackReply is streamed when the router produces no tool and no
// response text. The reply contract is that every request resolves with
// user-facing content.
const fallbackReply = "I am trained to give info in requested format, but your request I could not process."

// Dispatcher executes a routing decision against the matching collaborator
// and hands the result to the renderer. It is the last line of defense:
// every path ends in user-visible output, never a propagated error.
type Dispatcher struct {
	router     *llm.Router
	renderer   *llm.Renderer
	translator *llm.Translator
	store      *store.Store
	jira       *jira.Client
	catalog    *catalog.Client
	apps       *appstatus.Registry
}

func NewDispatcher(router *llm.Router, renderer *llm.Renderer, translator *llm.Translator, st *store.Store, jiraClient *jira.Client, catalogClient *catalog.Client, apps *appstatus.Registry) *Dispatcher {
	return &Dispatcher{
		router:     router,
		renderer:   renderer,
		translator: translator,
		store:      st,
		jira:       jiraClient,
		catalog:    catalogClient,
		apps:       apps,
	}
}

// Dispatch routes one user message and writes the full response to w.
func (d *Dispatcher) Dispatch(ctx context.Context, w http.ResponseWriter, message string) {
	reqID := shortuuid.New()
	decision, err := d.router.Route(ctx, message)
	if err != nil {
		d.renderer.RenderFailure(ctx, w, err)
		return
	}
	slog.Info("message routed", "request", reqID, "tool", decision.Tool, "format", decision.RequestedFormat)

	p := decision.Parameters
	switch decision.Tool {
	case llm.ToolGetVendors:
		rows, err := d.store.ListVendors(ctx, p.Skip, p.Limit)
		renderRows(d, ctx, w, decision, message, rows, err)
	case llm.ToolGetVendorByID:
		if !d.requireID(ctx, w, p.ID) {
			return
		}
		v, err := d.store.GetVendor(ctx, int32(p.ID))
		renderRow(d, ctx, w, decision, message, "vendor", p.ID, v, err)
	case llm.ToolSearchVendors:
		if !d.requireQuery(ctx, w, p.Query) {
			return
		}
		rows, err := d.store.SearchVendors(ctx, p.Query)
		renderRows(d, ctx, w, decision, message, rows, err)

	case llm.ToolGetUsers:
		rows, err := d.store.ListUsers(ctx, p.Skip, p.Limit)
		renderRows(d, ctx, w, decision, message, rows, err)
	case llm.ToolGetUserByID:
		if !d.requireID(ctx, w, p.ID) {
			return
		}
		u, err := d.store.GetUser(ctx, int32(p.ID))
		renderRow(d, ctx, w, decision, message, "user", p.ID, u, err)
	case llm.ToolSearchUsers:
		if !d.requireQuery(ctx, w, p.Query) {
			return
		}
		rows, err := d.store.SearchUsers(ctx, p.Query)
		renderRows(d, ctx, w, decision, message, rows, err)

	case llm.ToolGetRoles:
		rows, err := d.store.ListRoles(ctx, p.Skip, p.Limit)
		renderRows(d, ctx, w, decision, message, rows, err)
	case llm.ToolGetRoleByID:
		if !d.requireID(ctx, w, p.ID) {
			return
		}
		r, err := d.store.GetRole(ctx, int32(p.ID))
		renderRow(d, ctx, w, decision, message, "role", p.ID, r, err)
	case llm.ToolSearchRoles:
		if !d.requireQuery(ctx, w, p.Query) {
			return
		}
		rows, err := d.store.SearchRoles(ctx, p.Query)
		renderRows(d, ctx, w, decision, message, rows, err)

	case llm.ToolGetCommodities:
		rows, err := d.store.ListCommodities(ctx, p.Skip, p.Limit)
		renderRows(d, ctx, w, decision, message, rows, err)
	case llm.ToolGetCommodityByID:
		if !d.requireID(ctx, w, p.ID) {
			return
		}
		c, err := d.store.GetCommodity(ctx, int32(p.ID))
		renderRow(d, ctx, w, decision, message, "commodity", p.ID, c, err)
	case llm.ToolSearchCommodities:
		if !d.requireQuery(ctx, w, p.Query) {
			return
		}
		rows, err := d.store.SearchCommodities(ctx, p.Query)
		renderRows(d, ctx, w, decision, message, rows, err)

	case llm.ToolGetCurrencies:
		rows, err := d.store.ListCurrencies(ctx, p.Skip, p.Limit)
		renderRows(d, ctx, w, decision, message, rows, err)
	case llm.ToolGetCurrencyByID:
		if !d.requireID(ctx, w, p.ID) {
			return
		}
		c, err := d.store.GetCurrency(ctx, int32(p.ID))
		renderRow(d, ctx, w, decision, message, "currency", p.ID, c, err)
	case llm.ToolSearchCurrencies:
		if !d.requireQuery(ctx, w, p.Query) {
			return
		}
		rows, err := d.store.SearchCurrencies(ctx, p.Query)
		renderRows(d, ctx, w, decision, message, rows, err)

	case llm.ToolGetProducts:
		body, err := d.catalog.Products(ctx, p.Skip, p.Limit)
		d.renderRaw(ctx, w, decision, message, body, err, false)
	case llm.ToolGetProductByID:
		if !d.requireID(ctx, w, p.ID) {
			return
		}
		body, err := d.catalog.ProductByID(ctx, p.ID)
		d.renderRaw(ctx, w, decision, message, body, err, true)
	case llm.ToolSearchProducts:
		if !d.requireQuery(ctx, w, p.Query) {
			return
		}
		body, err := d.catalog.SearchProducts(ctx, p.Query)
		d.renderRaw(ctx, w, decision, message, body, err, false)

	case llm.ToolGetJiraIssue:
		if !d.requireID(ctx, w, p.ID) {
			return
		}
		body, err := d.jira.Issue(ctx, strconv.Itoa(p.ID))
		d.renderRaw(ctx, w, decision, message, body, err, true)

	case llm.ToolSearchJiraIssues:
		d.searchJiraIssues(ctx, w, decision, message)

	case llm.ToolCreateJiraIssue:
		d.createJiraIssue(ctx, w, p)

	case llm.ToolGetAppStatus:
		if p.AppName == "" || p.Env == "" {
			d.renderer.RenderFailure(ctx, w, &llm.InvalidInputError{Reason: "appName and env are required"})
			return
		}
		info := d.apps.Lookup(ctx, p.AppName, p.Env)
		if info == nil {
			d.renderer.StreamText(ctx, w, fmt.Sprintf("No application named %q is known in environment %q.", p.AppName, p.Env))
			return
		}
		d.render(ctx, w, decision, message, info, true)

	default:
		text := decision.ResponseText
		if text == "" {
			text = fallbackReply
		}
		d.renderer.StreamText(ctx, w, text)
	}
}

// searchJiraIssues translates the natural-language request to JQL first,
// then renders the flattened hits with the generated query as a prefix so
// the user can see what actually ran. The (prompt, jql) pair is saved only
// after the search itself succeeded.
func (d *Dispatcher) searchJiraIssues(ctx context.Context, w http.ResponseWriter, decision *llm.ToolDecision, message string) {
	jql, err := d.translator.Translate(ctx, message)
	if err != nil {
		d.renderer.RenderFailure(ctx, w, err)
		return
	}
	issues, err := d.jira.Search(ctx, jql)
	if err != nil {
		d.renderer.RenderFailure(ctx, w, err)
		return
	}
	d.translator.Save(message, jql)

	payload, err := json.Marshal(issues)
	if err != nil {
		d.renderer.RenderFailure(ctx, w, err)
		return
	}
	d.renderer.Render(ctx, w, llm.RenderRequest{
		Payload:      payload,
		UserPrompt:   message,
		SystemPrompt: promptFor(decision.RequestedFormat, false),
		Format:       decision.RequestedFormat,
		Prefix:       fmt.Sprintf("Generated JQL: %s\n\n", jql),
	})
}

// createJiraIssue is a direct action: the confirmation is synthesized
// locally and streamed without the JSON render path.
func (d *Dispatcher) createJiraIssue(ctx context.Context, w http.ResponseWriter, p llm.Parameters) {
	if p.Summary == "" {
		d.renderer.RenderFailure(ctx, w, &llm.InvalidInputError{Reason: "an issue summary is required"})
		return
	}
	created, err := d.jira.Create(ctx, jira.CreateIssueInput{
		Project:     p.Project,
		Summary:     p.Summary,
		IssueType:   p.IssueType,
		Description: p.Description,
	})
	if err != nil {
		d.renderer.RenderFailure(ctx, w, err)
		return
	}
	d.renderer.StreamText(ctx, w, fmt.Sprintf("Issue [%s](%s) created successfully with summary %q.",
		created.Key, d.jira.BrowseURL(created.Key), p.Summary))
}

func (d *Dispatcher) requireID(ctx context.Context, w http.ResponseWriter, id int) bool {
	if id < 1 {
		d.renderer.RenderFailure(ctx, w, &llm.InvalidInputError{Reason: "a positive id is required"})
		return false
	}
	return true
}

func (d *Dispatcher) requireQuery(ctx context.Context, w http.ResponseWriter, query string) bool {
	if query == "" {
		d.renderer.RenderFailure(ctx, w, &llm.InvalidInputError{Reason: "a search query is required"})
		return false
	}
	return true
}

func promptFor(format llm.DataFormat, object bool) string {
	switch {
	case format.IsChart():
		return llm.SystemPromptForChart
	case format == llm.MarkdownText:
		return llm.SystemPromptForText
	case object:
		return llm.SystemPromptForObject
	default:
		return llm.SystemPromptForArray
	}
}

func (d *Dispatcher) render(ctx context.Context, w http.ResponseWriter, decision *llm.ToolDecision, message string, payload any, object bool) {
	body, err := json.Marshal(payload)
	if err != nil {
		d.renderer.RenderFailure(ctx, w, err)
		return
	}
	d.renderRaw(ctx, w, decision, message, body, nil, object)
}

func (d *Dispatcher) renderRaw(ctx context.Context, w http.ResponseWriter, decision *llm.ToolDecision, message string, body json.RawMessage, err error, object bool) {
	if err != nil {
		d.renderer.RenderFailure(ctx, w, err)
		return
	}
	d.renderer.Render(ctx, w, llm.RenderRequest{
		Payload:      body,
		UserPrompt:   message,
		SystemPrompt: promptFor(decision.RequestedFormat, object),
		Format:       decision.RequestedFormat,
	})
}

// renderRows always presents a JSON array, even when the result set is
// empty, so the converter prompt's "No data available" rule applies.
func renderRows[T any](d *Dispatcher, ctx context.Context, w http.ResponseWriter, decision *llm.ToolDecision, message string, rows []T, err error) {
	if err != nil {
		d.renderer.RenderFailure(ctx, w, err)
		return
	}
	if rows == nil {
		rows = []T{}
	}
	d.render(ctx, w, decision, message, rows, false)
}

func renderRow[T any](d *Dispatcher, ctx context.Context, w http.ResponseWriter, decision *llm.ToolDecision, message, kind string, id int, row *T, err error) {
	if err != nil {
		d.renderer.RenderFailure(ctx, w, err)
		return
	}
	if row == nil {
		d.renderer.StreamText(ctx, w, fmt.Sprintf("No %s found with id %d.", kind, id))
		return
	}
	d.render(ctx, w, decision, message, row, true)
}
