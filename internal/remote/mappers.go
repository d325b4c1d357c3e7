package remote

import (
	"github.com/gravityplanner/gravity/internal/models"
)

// Remote role vocabulary. The local model speaks admin/partner/child.
const (
	remoteRolePrimary = "me"
	remoteRoleSpouse  = "spouse"
	remoteRoleChild   = "child"
	remoteRoleOther   = "other"
)

func roleToRemote(role models.MemberRole) string {
	switch role {
	case models.RoleAdmin:
		return remoteRolePrimary
	case models.RolePartner:
		return remoteRoleSpouse
	case models.RoleChild:
		return remoteRoleChild
	default:
		return remoteRoleOther
	}
}

func roleFromRemote(role string) models.MemberRole {
	switch role {
	case remoteRolePrimary:
		return models.RoleAdmin
	case remoteRoleSpouse:
		return models.RolePartner
	case remoteRoleChild:
		return models.RoleChild
	default:
		return models.RolePartner
	}
}

// MemberToRow converts a local member for pushing.
func MemberToRow(m models.Member) MemberRow {
	return MemberRow{
		ID:     m.ID,
		Name:   m.Name,
		Role:   roleToRemote(m.Role),
		Avatar: m.Color,
	}
}

// MemberFromRow converts a fetched member into local shape. The primary row
// takes the sentinel local id via the identity map.
func MemberFromRow(r MemberRow, ids *IdentityMap) models.Member {
	return models.Member{
		ID:    ids.Local(r.ID),
		Name:  r.Name,
		Role:  roleFromRemote(r.Role),
		Color: r.Avatar,
	}
}

// ActivityToRow converts a local activity for pushing, translating the
// member reference into remote identity space.
func ActivityToRow(a models.Activity, ids *IdentityMap) ActivityRow {
	return ActivityRow{
		ID:          a.ID,
		Type:        string(a.Type),
		Title:       a.Title,
		Description: a.Description,
		Category:    a.Category,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Context:     string(a.Context),
		Completed:   a.Completed,
		Member:      ids.Remote(a.MemberID),
	}
}

// ActivityFromRow converts a fetched activity into local shape.
func ActivityFromRow(r ActivityRow, ids *IdentityMap) models.Activity {
	typ := models.ActivityType(r.Type)
	if typ == "" {
		typ = models.ActivityTypeActivity
	}
	ctx := models.ActivityContext(r.Context)
	if ctx == "" {
		ctx = models.ContextPersonal
	}
	category := r.Category
	if category == "" {
		category = "good"
	}
	return models.Activity{
		ID:          r.ID,
		Type:        typ,
		MemberID:    ids.Local(r.Member),
		Title:       r.Title,
		Description: r.Description,
		Category:    category,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Context:     ctx,
		Completed:   r.Completed,
	}
}

// ActivityPatchToRow translates a local field patch into remote shape.
func ActivityPatchToRow(p models.ActivityPatch) ActivityRowPatch {
	row := ActivityRowPatch{
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		ClearEnd:    p.ClearEnd,
		Completed:   p.Completed,
	}
	if p.Context != nil {
		ctx := string(*p.Context)
		row.Context = &ctx
	}
	return row
}

// CategoryToRow converts a keyed category for pushing.
func CategoryToRow(key string, c models.Category) CategoryRow {
	return CategoryRow{Key: key, Label: c.Label, Color: c.Color, Icon: c.Icon}
}

// CategoriesFromRows rebuilds the keyed category map.
func CategoriesFromRows(rows []CategoryRow) map[string]models.Category {
	out := make(map[string]models.Category, len(rows))
	for _, r := range rows {
		out[r.Key] = models.Category{Label: r.Label, Color: r.Color, Icon: r.Icon}
	}
	return out
}

// GoalToRow converts a local goal for pushing.
func GoalToRow(g models.Goal, ids *IdentityMap) GoalRow {
	return GoalRow{
		ID:            g.ID,
		Title:         g.Title,
		Category:      g.Category,
		TargetMinutes: g.TargetValue,
		Period:        string(g.Period),
		Member:        ids.Remote(g.MemberID),
	}
}

// GoalFromRow converts a fetched goal into local shape.
func GoalFromRow(r GoalRow, ids *IdentityMap) models.Goal {
	period := models.GoalPeriod(r.Period)
	if period == "" {
		period = models.PeriodDay
	}
	return models.Goal{
		ID:          r.ID,
		MemberID:    ids.Local(r.Member),
		Title:       r.Title,
		Category:    r.Category,
		TargetValue: r.TargetMinutes,
		Period:      period,
	}
}

// GoalPatchToRow translates a local goal patch into remote shape.
func GoalPatchToRow(p models.GoalPatch) GoalRowPatch {
	row := GoalRowPatch{
		Title:         p.Title,
		Category:      p.Category,
		TargetMinutes: p.TargetValue,
	}
	if p.Period != nil {
		period := string(*p.Period)
		row.Period = &period
	}
	return row
}
