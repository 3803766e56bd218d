package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortcutbulk/models"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseYAMLAllSections(t *testing.T) {
	path := writeTempFile(t, "input.yaml", `
objectives:
  - name: Q3 Reliability
    description: Keep things up
    state: in progress

epics:
  - name: Checkout Revamp
    objective: Q3 Reliability
    owners: [alice, bob]
    teams: "Platform, Payments"
    labels:
      - q3
    start_date: "2026-09-01"
    deadline: "2026-12-20"

stories:
  - name: Add payment form
    type: feature
    epic: Checkout Revamp
    owners: "alice"
    team: Platform
    estimate: 3
    due_date: "2026-10-01"
    workflow_state: Backlog
`)

	input, err := ParseInputFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, 3, input.Total())

	require.Len(t, input.Objectives, 1)
	assert.Equal(t, "Q3 Reliability", input.Objectives[0].Name)
	assert.Equal(t, "in progress", input.Objectives[0].State)

	require.Len(t, input.Epics, 1)
	epic := input.Epics[0]
	// ownersはリスト形式、teamsはカンマ区切り文字列: どちらも同じ結果になる
	assert.Equal(t, models.StringList{"alice", "bob"}, epic.Owners)
	assert.Equal(t, models.StringList{"Platform", "Payments"}, epic.Teams)
	assert.Equal(t, models.StringList{"q3"}, epic.Labels)

	require.Len(t, input.Stories, 1)
	story := input.Stories[0]
	assert.Equal(t, models.StringList{"alice"}, story.Owners)
	require.NotNil(t, story.Estimate)
	assert.Equal(t, int64(3), *story.Estimate)
	assert.Equal(t, "Backlog", story.WorkflowState)
}

func TestParseYAMLSectionsAreOptional(t *testing.T) {
	path := writeTempFile(t, "epics.yml", `
epics:
  - name: Only Epics Here
`)
	input, err := ParseInputFile(path, "")
	require.NoError(t, err)
	assert.Empty(t, input.Objectives)
	assert.Len(t, input.Epics, 1)
	assert.Empty(t, input.Stories)
}

func TestParseCSVStories(t *testing.T) {
	// 複数値のセルはセミコロン区切り
	path := writeTempFile(t, "stories.csv",
		"name,type,description,epic,owners,team,labels,estimate,due_date,workflow_state\n"+
			"Fix login,bug,Broken again,Checkout Revamp,alice; bob,Platform,auth;urgent,2,2026-10-01,Backlog\n"+
			"No estimate,chore,,,,,,,,\n")

	input, err := ParseInputFile(path, ResourceStory)
	require.NoError(t, err)
	require.Len(t, input.Stories, 2)

	story := input.Stories[0]
	assert.Equal(t, "Fix login", story.Name)
	assert.Equal(t, "bug", story.Type)
	assert.Equal(t, models.StringList{"alice", "bob"}, story.Owners)
	assert.Equal(t, models.StringList{"auth", "urgent"}, story.Labels)
	require.NotNil(t, story.Estimate)
	assert.Equal(t, int64(2), *story.Estimate)

	// 空の見積もりセルはnilになる
	assert.Nil(t, input.Stories[1].Estimate)
}

func TestParseCSVEpics(t *testing.T) {
	path := writeTempFile(t, "epics.csv",
		"name,description,objective,owners,teams,labels,state,start_date,deadline,template\n"+
			"Checkout Revamp,Big rewrite,Q3 Reliability,alice,Platform;Payments,q3,to do,2026-09-01,2026-12-20,\n")

	input, err := ParseInputFile(path, ResourceEpic)
	require.NoError(t, err)
	require.Len(t, input.Epics, 1)

	epic := input.Epics[0]
	assert.Equal(t, "Q3 Reliability", epic.Objective)
	assert.Equal(t, models.StringList{"Platform", "Payments"}, epic.Teams)
	assert.Equal(t, "to do", epic.State)
}

func TestParseCSVRequiresResourceType(t *testing.T) {
	path := writeTempFile(t, "anything.csv", "name\nX\n")
	_, err := ParseInputFile(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-type")
}

func TestParseUnsupportedExtension(t *testing.T) {
	path := writeTempFile(t, "input.toml", "name = 'x'")
	_, err := ParseInputFile(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".toml")
}

func TestParseResourceType(t *testing.T) {
	rt, err := ParseResourceType("Epic")
	require.NoError(t, err)
	assert.Equal(t, ResourceEpic, rt)

	_, err = ParseResourceType("milestone")
	assert.Error(t, err)
}
