package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"shortcutbulk/api"
	"shortcutbulk/config"
	"shortcutbulk/models"
	"shortcutbulk/utils"
)

// CreationService は入力ファイルからShortcutリソースを一括作成します
type CreationService struct {
	config   *config.Config
	client   *api.ShortcutClient
	reporter Reporter

	// 実行全体で使用するエピック説明文テンプレート（-template フラグ）
	// エピックごとのテンプレート指定があればそちらが優先されます
	globalTemplate *Template
}

// NewCreationService は新しい作成サービスを作成します
func NewCreationService(cfg *config.Config, client *api.ShortcutClient, reporter Reporter, globalTemplate *Template) *CreationService {
	return &CreationService{
		config:         cfg,
		client:         client,
		reporter:       reporter,
		globalTemplate: globalTemplate,
	}
}

// Run は一括作成を実行します
// 作成順序はオブジェクティブ → エピック → ストーリーで固定です
// この順序により、同じファイル内の名前参照が正しく解決されます
// レコード単位の失敗は記録して処理を継続します（バッチは中断しません）
func (s *CreationService) Run(input *models.InputFile) (*models.RunResults, error) {
	startTime := time.Now()
	defer utils.TrackTime(startTime, "一括作成")

	s.reporter.Parsed(len(input.Objectives), len(input.Epics), len(input.Stories))

	// ワークスペースデータの取得に失敗した場合は名前解決ができないため
	// レコードを1件も処理せずに実行全体を中止します
	utils.LogInfo("ワークスペースデータ（メンバー・チーム・ワークフロー）を取得しています...")
	resolver, err := NewResolver(s.client)
	if err != nil {
		return nil, err
	}

	results := &models.RunResults{}

	// オブジェクティブ
	for i := range input.Objectives {
		obj := &input.Objectives[i]
		created, err := s.createObjective(obj)
		if err != nil {
			results.Failures = append(results.Failures, models.RunFailure{
				Kind: "objective", Name: obj.Name, Message: err.Error(),
			})
			s.reporter.Failed("objective", obj.Name, err.Error())
			continue
		}
		resolver.RegisterObjective(obj.Name, created.ID)
		results.ObjectivesCreated++
		s.reporter.Created("objective", created.Name, created.ID, created.AppURL)
	}

	// エピック
	for i := range input.Epics {
		epic := &input.Epics[i]
		created, err := s.createEpic(epic, resolver)
		if err != nil {
			results.Failures = append(results.Failures, models.RunFailure{
				Kind: "epic", Name: epic.Name, Message: err.Error(),
			})
			s.reporter.Failed("epic", epic.Name, err.Error())
			continue
		}
		resolver.RegisterEpic(epic.Name, created.ID)
		results.EpicsCreated++
		s.reporter.Created("epic", created.Name, created.ID, created.AppURL)
	}

	// ストーリー
	for i := range input.Stories {
		story := &input.Stories[i]
		created, err := s.createStory(story, resolver)
		if err != nil {
			results.Failures = append(results.Failures, models.RunFailure{
				Kind: "story", Name: story.Name, Message: err.Error(),
			})
			s.reporter.Failed("story", story.Name, err.Error())
			continue
		}
		results.StoriesCreated++
		s.reporter.Created("story", created.Name, created.ID, created.AppURL)
	}

	s.reporter.Summary(results)
	return results, nil
}

// createObjective は1件のオブジェクティブを作成します
func (s *CreationService) createObjective(obj *models.InputObjective) (*api.Objective, error) {
	req := &api.CreateObjectiveRequest{
		Name:        obj.Name,
		Description: obj.Description,
		State:       obj.State,
	}
	return s.client.CreateObjective(req)
}

// createEpic は参照を解決して1件のエピックを作成します
func (s *CreationService) createEpic(epic *models.InputEpic, resolver *Resolver) (*api.Epic, error) {
	var ownerIDs []string
	if len(epic.Owners) > 0 {
		ids, err := resolver.ResolveMembers(epic.Owners)
		if err != nil {
			return nil, err
		}
		ownerIDs = ids
	}

	var groupIDs []string
	if len(epic.Teams) > 0 {
		ids, err := resolver.ResolveGroups(epic.Teams)
		if err != nil {
			return nil, err
		}
		groupIDs = ids
	}

	var objectiveIDs []int64
	if epic.Objective != "" {
		id, err := resolver.ResolveObjective(epic.Objective)
		if err != nil {
			return nil, err
		}
		objectiveIDs = []int64{id}
	}

	// エピックごとのテンプレートがグローバルテンプレートより優先されます
	template := s.globalTemplate
	if epic.Template != "" {
		t, err := LoadTemplate(epic.Template)
		if err != nil {
			return nil, err
		}
		template = t
	}

	description := epic.Description
	if template != nil {
		description = template.Render(epic)
	}

	req := &api.CreateEpicRequest{
		Name:             epic.Name,
		Description:      description,
		State:            epic.State,
		ObjectiveIDs:     objectiveIDs,
		OwnerIDs:         ownerIDs,
		GroupIDs:         groupIDs,
		Labels:           labelsParam(epic.Labels),
		PlannedStartDate: epic.StartDate,
		Deadline:         epic.Deadline,
	}
	return s.client.CreateEpic(req)
}

// createStory は参照を解決して1件のストーリーを作成します
func (s *CreationService) createStory(story *models.InputStory, resolver *Resolver) (*api.Story, error) {
	var ownerIDs []string
	if len(story.Owners) > 0 {
		ids, err := resolver.ResolveMembers(story.Owners)
		if err != nil {
			return nil, err
		}
		ownerIDs = ids
	}

	var groupID string
	if story.Team != "" {
		id, err := resolver.ResolveGroup(story.Team)
		if err != nil {
			return nil, err
		}
		groupID = id
	}

	var epicID int64
	if story.Epic != "" {
		id, err := resolver.ResolveEpic(story.Epic)
		if err != nil {
			return nil, err
		}
		epicID = id
	}

	// ワークフローステート未指定の場合はデフォルト（最初のunstartedステート）
	var workflowStateID int64
	if story.WorkflowState != "" {
		id, err := resolver.ResolveWorkflowState(story.WorkflowState)
		if err != nil {
			return nil, err
		}
		workflowStateID = id
	} else if id, ok := resolver.DefaultWorkflowStateID(); ok {
		workflowStateID = id
	}

	req := &api.CreateStoryRequest{
		Name:            story.Name,
		StoryType:       story.Type,
		Description:     story.Description,
		OwnerIDs:        ownerIDs,
		GroupID:         groupID,
		EpicID:          epicID,
		WorkflowStateID: workflowStateID,
		Labels:          labelsParam(story.Labels),
		Estimate:        story.Estimate,
		Deadline:        story.DueDate,
	}
	return s.client.CreateStory(req)
}

// labelsParam はラベル名のリストをAPIパラメータに変換します
func labelsParam(names []string) []api.CreateLabelParams {
	if len(names) == 0 {
		return nil
	}
	params := make([]api.CreateLabelParams, 0, len(names))
	for _, name := range names {
		params = append(params, api.CreateLabelParams{Name: name})
	}
	return params
}

// ------------------------------------------------------------------
// ドライラン検証
// ------------------------------------------------------------------

// 有効なstate値とtype値
var (
	validStates     = []string{"in progress", "to do", "done"}
	validStoryTypes = []string{"bug", "chore", "feature"}
)

// DryRun は作成リクエストを一切発行せずに入力を検証します
// 名前解決のためワークスペースデータの取得は行います
// 違反は途中で打ち切らず、すべて収集して順序どおりに返します
func (s *CreationService) DryRun(input *models.InputFile) ([]string, error) {
	s.reporter.Parsed(len(input.Objectives), len(input.Epics), len(input.Stories))

	utils.LogInfo("ワークスペースデータ（メンバー・チーム・ワークフロー）を取得しています...")
	resolver, err := NewResolver(s.client)
	if err != nil {
		return nil, err
	}

	violations := s.validate(input, resolver)
	s.reporter.DryRun(violations)
	return violations, nil
}

// validate は入力ファイル全体を検証し、違反メッセージのリストを返します
func (s *CreationService) validate(input *models.InputFile, resolver *Resolver) []string {
	var violations []string

	// オブジェクティブの検証
	for i := range input.Objectives {
		obj := &input.Objectives[i]
		if obj.Name == "" {
			violations = append(violations, "オブジェクティブ: 'name' は必須です")
		}
		if obj.State != "" && !contains(validStates, obj.State) {
			violations = append(violations, fmt.Sprintf(
				"オブジェクティブ '%s': 無効なstate '%s' です。'in progress', 'to do', 'done' のいずれかを指定してください",
				obj.Name, obj.State))
		}
	}

	// 同一バッチ内の前方参照を許可するためのオブジェクティブ名セット
	batchObjectives := make(map[string]bool, len(input.Objectives))
	for i := range input.Objectives {
		batchObjectives[input.Objectives[i].Name] = true
	}

	// エピックの検証
	for i := range input.Epics {
		epic := &input.Epics[i]
		if epic.Name == "" {
			violations = append(violations, "エピック: 'name' は必須です")
			continue
		}
		if epic.State != "" && !contains(validStates, epic.State) {
			violations = append(violations, fmt.Sprintf(
				"エピック '%s': 無効なstate '%s' です。'in progress', 'to do', 'done' のいずれかを指定してください",
				epic.Name, epic.State))
		}
		for _, owner := range epic.Owners {
			if !resolver.HasMember(owner) {
				violations = append(violations, fmt.Sprintf(
					"エピック '%s': 不明なユーザー '%s' です。候補: %s",
					epic.Name, owner, ListSample(resolver.AvailableMembers())))
			}
		}
		for _, team := range epic.Teams {
			if !resolver.HasGroup(team) {
				violations = append(violations, fmt.Sprintf(
					"エピック '%s': 不明なチーム '%s' です。候補: %s",
					epic.Name, team, ListSample(resolver.AvailableGroups())))
			}
		}
		if epic.Objective != "" && !isNumericID(epic.Objective) &&
			!batchObjectives[epic.Objective] && !resolver.HasObjective(epic.Objective) {
			violations = append(violations, fmt.Sprintf(
				"エピック '%s': オブジェクティブ '%s' がバッチ内に見つかりません（既存のオブジェクティブは数値IDで指定してください）",
				epic.Name, epic.Objective))
		}
		// エピックごとのテンプレートファイルの存在確認
		if epic.Template != "" {
			if _, err := os.Stat(epic.Template); err != nil {
				violations = append(violations, fmt.Sprintf(
					"エピック '%s': テンプレートファイル '%s' が見つかりません",
					epic.Name, epic.Template))
			}
		}
	}

	// 同一バッチ内の前方参照を許可するためのエピック名セット
	batchEpics := make(map[string]bool, len(input.Epics))
	for i := range input.Epics {
		batchEpics[input.Epics[i].Name] = true
	}

	// ストーリーの検証
	for i := range input.Stories {
		story := &input.Stories[i]
		if story.Name == "" {
			violations = append(violations, "ストーリー: 'name' は必須です")
			continue
		}
		if story.Type != "" && !contains(validStoryTypes, story.Type) {
			violations = append(violations, fmt.Sprintf(
				"ストーリー '%s': 無効なtype '%s' です。'bug', 'chore', 'feature' のいずれかを指定してください",
				story.Name, story.Type))
		}
		for _, owner := range story.Owners {
			if !resolver.HasMember(owner) {
				violations = append(violations, fmt.Sprintf(
					"ストーリー '%s': 不明なユーザー '%s' です。候補: %s",
					story.Name, owner, ListSample(resolver.AvailableMembers())))
			}
		}
		if story.Team != "" && !resolver.HasGroup(story.Team) {
			violations = append(violations, fmt.Sprintf(
				"ストーリー '%s': 不明なチーム '%s' です。候補: %s",
				story.Name, story.Team, ListSample(resolver.AvailableGroups())))
		}
		if story.Epic != "" && !isNumericID(story.Epic) &&
			!batchEpics[story.Epic] && !resolver.HasEpic(story.Epic) {
			violations = append(violations, fmt.Sprintf(
				"ストーリー '%s': エピック '%s' がバッチ内に見つかりません（既存のエピックは数値IDで指定してください）",
				story.Name, story.Epic))
		}
		if story.WorkflowState != "" && !resolver.HasWorkflowState(story.WorkflowState) {
			violations = append(violations, fmt.Sprintf(
				"ストーリー '%s': 不明なワークフローステート '%s' です。候補: %s",
				story.Name, story.WorkflowState, ListSample(resolver.AvailableWorkflowStates())))
		}
	}

	return violations
}

// isNumericID は文字列が数値ID（既存リソースへのパススルー参照）かを判定します
func isNumericID(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
