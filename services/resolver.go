package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"shortcutbulk/api"
)

// NameNotFoundError は名前がワークスペース内で解決できなかったことを表します
type NameNotFoundError struct {
	// 対象リソースの種類 ("user" | "team" | "workflow state" | "objective" | "epic")
	Kind string
	Name string
}

func (e *NameNotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' がワークスペースに見つかりません", e.Kind, e.Name)
}

// Resolver はワークスペースデータから構築した名前→IDの対応表を保持します
// 実行中に作成されたオブジェクティブ/エピックのIDも蓄積するため、
// 同じファイル内の後続レコードが名前で参照できます
type Resolver struct {
	// フルネーム・メンション名・メールアドレス → メンバーUUID
	memberMap map[string]string
	// チーム名・メンション名 → グループUUID
	groupMap map[string]string
	// ワークフローステート名 → ステートID
	workflowStateMap map[string]int64
	// 最初に見つかった "unstarted" ステート（ストーリーのデフォルト）
	defaultWorkflowStateID int64
	hasDefaultState        bool

	// 実行中に作成されたリソースの対応表（作成成功後に登録される）
	objectiveMap map[string]int64
	epicMap      map[string]int64
}

// NewResolver はメンバー・グループ・ワークフローを並列に取得して
// 対応表を構築します。いずれかの取得が失敗した場合は全体が失敗します
func NewResolver(client *api.ShortcutClient) (*Resolver, error) {
	var (
		members   []api.Member
		groups    []api.Group
		workflows []api.Workflow
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		members, err = client.ListMembers()
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = client.ListGroups()
		return err
	})
	g.Go(func() error {
		var err error
		workflows, err = client.ListWorkflows()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ワークスペースデータ取得エラー: %w", err)
	}

	return buildResolver(members, groups, workflows), nil
}

// buildResolver は取得済みのワークスペースデータから対応表を構築します
func buildResolver(members []api.Member, groups []api.Group, workflows []api.Workflow) *Resolver {
	r := &Resolver{
		memberMap:        make(map[string]string),
		groupMap:         make(map[string]string),
		workflowStateMap: make(map[string]int64),
		objectiveMap:     make(map[string]int64),
		epicMap:          make(map[string]int64),
	}

	// メンバー（無効化されたメンバーは除外）
	for _, m := range members {
		if m.Disabled {
			continue
		}
		r.memberMap[m.Profile.Name] = m.ID
		r.memberMap[m.Profile.MentionName] = m.ID
		if m.Profile.EmailAddress != "" {
			r.memberMap[m.Profile.EmailAddress] = m.ID
		}
	}

	// チーム（アーカイブ済みは除外）
	for _, grp := range groups {
		if grp.Archived {
			continue
		}
		r.groupMap[grp.Name] = grp.ID
		r.groupMap[grp.MentionName] = grp.ID
	}

	// ワークフローステート
	// 同名ステートが複数ワークフローにある場合は後勝ちになります
	for _, wf := range workflows {
		for _, state := range wf.States {
			r.workflowStateMap[state.Name] = state.ID
			if !r.hasDefaultState && state.Type == "unstarted" {
				r.defaultWorkflowStateID = state.ID
				r.hasDefaultState = true
			}
		}
		// unstartedステートが無い場合はワークフロー宣言のデフォルトを使用
		if !r.hasDefaultState {
			r.defaultWorkflowStateID = wf.DefaultStateID
			r.hasDefaultState = true
		}
	}

	return r
}

// ------------------------------------------------------------------
// 名前解決
// ------------------------------------------------------------------

// ResolveMember はメンバー名（フルネーム・メンション名・メール）をUUIDに解決します
func (r *Resolver) ResolveMember(name string) (string, error) {
	if id, ok := r.memberMap[strings.TrimSpace(name)]; ok {
		return id, nil
	}
	return "", &NameNotFoundError{Kind: "user", Name: name}
}

// ResolveMembers は複数のメンバー名を解決します（1つでも失敗すると全体が失敗）
func (r *Resolver) ResolveMembers(names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, err := r.ResolveMember(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ResolveGroup はチーム名をUUIDに解決します
func (r *Resolver) ResolveGroup(name string) (string, error) {
	if id, ok := r.groupMap[strings.TrimSpace(name)]; ok {
		return id, nil
	}
	return "", &NameNotFoundError{Kind: "team", Name: name}
}

// ResolveGroups は複数のチーム名を解決します（1つでも失敗すると全体が失敗）
func (r *Resolver) ResolveGroups(names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, err := r.ResolveGroup(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ResolveWorkflowState はワークフローステート名をIDに解決します
func (r *Resolver) ResolveWorkflowState(name string) (int64, error) {
	if id, ok := r.workflowStateMap[strings.TrimSpace(name)]; ok {
		return id, nil
	}
	return 0, &NameNotFoundError{Kind: "workflow state", Name: name}
}

// DefaultWorkflowStateID はストーリーのデフォルトワークフローステートIDを返します
func (r *Resolver) DefaultWorkflowStateID() (int64, bool) {
	return r.defaultWorkflowStateID, r.hasDefaultState
}

// ResolveObjective はオブジェクティブ名をIDに解決します
// 数値文字列（例: "12345"）は既存リソースへのIDとしてそのまま通します
func (r *Resolver) ResolveObjective(name string) (int64, error) {
	trimmed := strings.TrimSpace(name)
	if id, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return id, nil
	}
	if id, ok := r.objectiveMap[trimmed]; ok {
		return id, nil
	}
	return 0, &NameNotFoundError{Kind: "objective", Name: name}
}

// ResolveEpic はエピック名をIDに解決します
// 数値文字列は既存リソースへのIDとしてそのまま通します
func (r *Resolver) ResolveEpic(name string) (int64, error) {
	trimmed := strings.TrimSpace(name)
	if id, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return id, nil
	}
	if id, ok := r.epicMap[trimmed]; ok {
		return id, nil
	}
	return 0, &NameNotFoundError{Kind: "epic", Name: name}
}

// HasMember / HasGroup / HasWorkflowState はドライラン検証用の存在チェックです

func (r *Resolver) HasMember(name string) bool {
	_, ok := r.memberMap[strings.TrimSpace(name)]
	return ok
}

func (r *Resolver) HasGroup(name string) bool {
	_, ok := r.groupMap[strings.TrimSpace(name)]
	return ok
}

func (r *Resolver) HasWorkflowState(name string) bool {
	_, ok := r.workflowStateMap[strings.TrimSpace(name)]
	return ok
}

// HasObjective は実行中に作成されたオブジェクティブの存在チェックです
func (r *Resolver) HasObjective(name string) bool {
	_, ok := r.objectiveMap[strings.TrimSpace(name)]
	return ok
}

// HasEpic は実行中に作成されたエピックの存在チェックです
func (r *Resolver) HasEpic(name string) bool {
	_, ok := r.epicMap[strings.TrimSpace(name)]
	return ok
}

// ------------------------------------------------------------------
// 登録（作成成功後にパイプラインから呼ばれる唯一の更新操作）
// ------------------------------------------------------------------

// RegisterObjective は作成済みオブジェクティブを対応表に登録します
func (r *Resolver) RegisterObjective(name string, id int64) {
	r.objectiveMap[name] = id
}

// RegisterEpic は作成済みエピックを対応表に登録します
func (r *Resolver) RegisterEpic(name string, id int64) {
	r.epicMap[name] = id
}

// ------------------------------------------------------------------
// 候補一覧（エラーメッセージのヒント用）
// ------------------------------------------------------------------

// AvailableMembers は解決可能なメンバー名の一覧を返します
func (r *Resolver) AvailableMembers() []string {
	return mapKeys(r.memberMap)
}

// AvailableGroups は解決可能なチーム名の一覧を返します
func (r *Resolver) AvailableGroups() []string {
	return mapKeys(r.groupMap)
}

// AvailableWorkflowStates は解決可能なワークフローステート名の一覧を返します
func (r *Resolver) AvailableWorkflowStates() []string {
	keys := make([]string, 0, len(r.workflowStateMap))
	for k := range r.workflowStateMap {
		keys = append(keys, k)
	}
	return keys
}

func mapKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// ListSample は候補一覧をソート・重複除去し、先頭5件と残り件数に整形します
func ListSample(items []string) string {
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)

	deduped := sorted[:0]
	prev := ""
	for i, s := range sorted {
		if i == 0 || s != prev {
			deduped = append(deduped, s)
		}
		prev = s
	}

	if len(deduped) <= 5 {
		return strings.Join(deduped, ", ")
	}
	return fmt.Sprintf("%s … (+%d)", strings.Join(deduped[:5], ", "), len(deduped)-5)
}
