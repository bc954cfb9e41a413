package jira

import (
	"encoding/json"
	"fmt"
	"strings"
)

// IssueSummary is a flattened search hit with the sprint, story point and
// parent custom fields already folded into plain strings.
type IssueSummary struct {
	Key         string   `json:"key"`
	Type        string   `json:"type"`
	Summary     string   `json:"summary"`
	Status      string   `json:"status"`
	Assignee    string   `json:"assignee"`
	Sprint      string   `json:"sprint"`
	StoryPoints string   `json:"storyPoints"`
	FixVersions []string `json:"fixVersions"`
	Parent      string   `json:"parent"`
	Flagged     string   `json:"flagged"`
	Subtasks    int      `json:"subtasks"`
	Created     string   `json:"created"`
	Updated     string   `json:"updated,omitempty"`
}

type searchResponse struct {
	Issues []struct {
		Key    string `json:"key"`
		Fields struct {
			Summary   string `json:"summary"`
			Created   string `json:"created"`
			Updated   string `json:"updated"`
			IssueType struct {
				Name string `json:"name"`
			} `json:"issuetype"`
			Status struct {
				Name string `json:"name"`
			} `json:"status"`
			Assignee *struct {
				DisplayName string `json:"displayName"`
			} `json:"assignee"`
			FixVersions []struct {
				Name string `json:"name"`
			} `json:"fixVersions"`
			Parent *struct {
				Key    string `json:"key"`
				Fields struct {
					IssueType struct {
						Name string `json:"name"`
					} `json:"issuetype"`
				} `json:"fields"`
			} `json:"parent"`
			Subtasks []json.RawMessage `json:"subtasks"`
			Sprints  []struct {
				Name  string `json:"name"`
				State string `json:"state"`
			} `json:"customfield_10020"`
			StoryPoints *float64 `json:"customfield_10016"`
			Flags       []struct {
				Value string `json:"value"`
			} `json:"customfield_10021"`
		} `json:"fields"`
	} `json:"issues"`
}

func flatten(resp searchResponse) []IssueSummary {
	summaries := make([]IssueSummary, 0, len(resp.Issues))
	for _, issue := range resp.Issues {
		f := issue.Fields

		s := IssueSummary{
			Key:         issue.Key,
			Type:        f.IssueType.Name,
			Summary:     f.Summary,
			Status:      f.Status.Name,
			StoryPoints: "-",
			FixVersions: []string{},
			Subtasks:    len(f.Subtasks),
			Created:     f.Created,
			Updated:     f.Updated,
		}
		if f.Assignee != nil {
			s.Assignee = f.Assignee.DisplayName
		}
		if len(f.Sprints) > 0 {
			state := f.Sprints[0].State
			if state == "" {
				state = "-"
			}
			s.Sprint = fmt.Sprintf("%s - %s", f.Sprints[0].Name, state)
		}
		if f.StoryPoints != nil {
			s.StoryPoints = strings.TrimSuffix(strings.TrimSuffix(fmt.Sprintf("%.1f", *f.StoryPoints), "0"), ".")
		}
		for _, v := range f.FixVersions {
			s.FixVersions = append(s.FixVersions, v.Name)
		}
		if f.Parent != nil {
			s.Parent = strings.TrimSpace(f.Parent.Key + " " + f.Parent.Fields.IssueType.Name)
		}
		if len(f.Flags) > 0 {
			s.Flagged = f.Flags[0].Value
		}
		summaries = append(summaries, s)
	}
	return summaries
}
