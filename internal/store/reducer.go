package store

import (
	"strings"
	"time"

	"github.com/gravityplanner/gravity/internal/constants"
	"github.com/gravityplanner/gravity/internal/models"
)

// Reduce is the pure transition function. It is total: nil or unrecognized
// actions and malformed payloads return the state unchanged. It never
// performs I/O and never reads the clock; timestamps arrive in the action.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case StartActivity:
		return reduceStartActivity(s, a)
	case StopActivity:
		member := a.MemberID
		if member == "" {
			member = s.CurrentMemberID
		}
		return sealOpenActivity(s, member, a.Now)
	case ResolveStaleActivity:
		return sealOpenActivity(s, a.MemberID, a.EndTime)
	case AddRetroactive:
		return reduceAddRetroactive(s, a)
	case AddNote:
		return reduceInsertRecord(s, models.ActivityTypeNote, a.ID, a.MemberID, a.Title, a.Description, a.StartTime)
	case AddReminder:
		return reduceInsertRecord(s, models.ActivityTypeReminder, a.ID, a.MemberID, a.Title, a.Description, a.StartTime)
	case UpdateActivity:
		return reduceUpdateActivity(s, a)
	case ToggleCompleted:
		return reduceToggleCompleted(s, a)
	case AddMember:
		return reduceAddMember(s, a)
	case UpdateMember:
		return reduceUpdateMember(s, a)
	case DeleteMember:
		return reduceDeleteMember(s, a)
	case SwitchMember:
		if _, ok := s.MemberByID(a.ID); !ok {
			return s
		}
		s.CurrentMemberID = a.ID
		return s
	case AddCategory:
		if a.ID == "" {
			return s
		}
		cats := cloneCategories(s.Categories)
		cats[a.ID] = a.Category
		s.Categories = cats
		return s
	case UpdateCategory:
		cat, ok := s.Categories[a.ID]
		if !ok {
			return s
		}
		cats := cloneCategories(s.Categories)
		cats[a.ID] = a.Patch.Apply(cat)
		s.Categories = cats
		return s
	case DeleteCategory:
		if isReservedCategory(a.ID) {
			return s
		}
		if _, ok := s.Categories[a.ID]; !ok {
			return s
		}
		cats := cloneCategories(s.Categories)
		delete(cats, a.ID)
		s.Categories = cats
		return s
	case AddGoal:
		return reduceAddGoal(s, a)
	case UpdateGoal:
		return reduceUpdateGoal(s, a)
	case DeleteGoal:
		goals := make([]models.Goal, 0, len(s.Goals))
		for _, g := range s.Goals {
			if g.ID != a.ID {
				goals = append(goals, g)
			}
		}
		s.Goals = goals
		return s
	case AcknowledgeReminder:
		for _, id := range s.AcknowledgedReminders {
			if id == a.ID {
				return s
			}
		}
		s.AcknowledgedReminders = append(append([]string{}, s.AcknowledgedReminders...), a.ID)
		return s
	case ToggleSession:
		return reduceToggleSession(s, a)
	case AddSessionType:
		return reduceAddSessionType(s, a)
	case UpdateSessionType:
		return reduceUpdateSessionType(s, a)
	case DeleteSessionType:
		return reduceDeleteSessionType(s, a)
	case SetTheme:
		if a.Theme == "" {
			return s
		}
		s.Theme = a.Theme
		return s
	case SetParentPin:
		s.ParentPin = a.Hash
		return s
	case LearnRule:
		keyword := strings.ToLower(strings.TrimSpace(a.Keyword))
		if keyword == "" || a.Category == "" {
			return s
		}
		rules := cloneStringMap(s.CustomRules)
		rules[keyword] = a.Category
		s.CustomRules = rules
		return s
	case LoadState:
		return reduceLoadState(s, a)
	default:
		return s
	}
}

func isReservedCategory(id string) bool {
	return id == constants.CategoryNothing || id == constants.CategoryNote || id == constants.CategoryReminder
}

func reduceStartActivity(s State, a StartActivity) State {
	if a.ID == "" {
		return s
	}
	member := a.MemberID
	if member == "" {
		member = s.CurrentMemberID
	}

	// Seal any open activity with the same instant the new one starts, so
	// back-to-back activities leave no gap.
	s = sealOpenActivity(s, member, a.Now)

	category := a.Category
	if category == "" {
		category = "good"
	}
	ctx := models.ContextPersonal
	if s.ActiveSessions[member] != nil {
		ctx = models.ContextOfficial
	}

	next := models.Activity{
		ID:          a.ID,
		Type:        models.ActivityTypeActivity,
		MemberID:    member,
		Title:       a.Title,
		Description: a.Description,
		Category:    category,
		StartTime:   a.Now,
		Context:     ctx,
	}

	acts := append([]models.Activity{next}, cloneActivities(s.Activities)...)
	sortActivitiesDesc(acts)
	open := cloneStringMap(s.OpenByMember)
	open[member] = next.ID

	s.Activities = acts
	s.OpenByMember = open
	return s
}

// sealOpenActivity closes the member's open activity in place and drops the
// open-index entry. No-op when the member has nothing open.
func sealOpenActivity(s State, memberID string, end time.Time) State {
	openID, ok := s.OpenByMember[memberID]
	if !ok {
		return s
	}
	acts := cloneActivities(s.Activities)
	for i := range acts {
		if acts[i].ID == openID {
			sealed := end
			acts[i].EndTime = &sealed
			break
		}
	}
	open := cloneStringMap(s.OpenByMember)
	delete(open, memberID)

	s.Activities = acts
	s.OpenByMember = open
	return s
}

func reduceAddRetroactive(s State, a AddRetroactive) State {
	if a.ID == "" {
		return s
	}
	member := a.MemberID
	if member == "" {
		member = s.CurrentMemberID
	}
	category := a.Category
	if category == "" {
		category = "good"
	}
	end := a.EndTime
	act := models.Activity{
		ID:          a.ID,
		Type:        models.ActivityTypeActivity,
		MemberID:    member,
		Title:       a.Title,
		Description: a.Description,
		Category:    category,
		StartTime:   a.StartTime,
		EndTime:     &end,
		Context:     models.ContextPersonal,
	}
	return insertSorted(s, act)
}

func reduceInsertRecord(s State, typ models.ActivityType, id, memberID, title, description string, start time.Time) State {
	if id == "" {
		return s
	}
	member := memberID
	if member == "" {
		member = s.CurrentMemberID
	}
	category := constants.CategoryNote
	if typ == models.ActivityTypeReminder {
		category = constants.CategoryReminder
	}
	act := models.Activity{
		ID:        id,
		Type:      typ,
		MemberID:  member,
		Title:     title,
		Category:  category,
		StartTime: start,
		Context:   models.ContextPersonal,
	}
	act.Description = description
	return insertSorted(s, act)
}

// insertSorted adds a record to the log and restores the newest-first order.
// O(n log n) per insert, which is fine at per-user log sizes.
func insertSorted(s State, act models.Activity) State {
	acts := append([]models.Activity{act}, cloneActivities(s.Activities)...)
	sortActivitiesDesc(acts)
	s.Activities = acts
	return s
}

func reduceUpdateActivity(s State, a UpdateActivity) State {
	if a.Patch.IsZero() {
		return s
	}
	idx := -1
	for i := range s.Activities {
		if s.Activities[i].ID == a.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}
	acts := cloneActivities(s.Activities)
	acts[idx] = a.Patch.Apply(acts[idx])
	updated := acts[idx]
	if a.Patch.StartTime != nil {
		sortActivitiesDesc(acts)
	}
	s.Activities = acts

	// Keep the open index consistent with the patched end time: sealing a
	// live activity via an explicit patch drops it from the index, clearing
	// the end of a sealed one re-indexes it (unless the member already has
	// something running).
	if indexedID, ok := s.OpenByMember[updated.MemberID]; ok && indexedID == updated.ID {
		if !updated.Open() {
			open := cloneStringMap(s.OpenByMember)
			delete(open, updated.MemberID)
			s.OpenByMember = open
		}
	} else if updated.Open() && updated.Type == models.ActivityTypeActivity {
		if _, busy := s.OpenByMember[updated.MemberID]; !busy {
			open := cloneStringMap(s.OpenByMember)
			open[updated.MemberID] = updated.ID
			s.OpenByMember = open
		}
	}
	return s
}

func reduceToggleCompleted(s State, a ToggleCompleted) State {
	for i := range s.Activities {
		if s.Activities[i].ID == a.ID {
			acts := cloneActivities(s.Activities)
			acts[i].Completed = !acts[i].Completed
			s.Activities = acts
			return s
		}
	}
	return s
}

func reduceAddMember(s State, a AddMember) State {
	if a.ID == "" || a.Name == "" {
		return s
	}
	if _, exists := s.MemberByID(a.ID); exists {
		return s
	}
	role := a.Role
	if role == "" {
		role = models.RolePartner
	}
	members := append([]models.Member{}, s.Members...)
	members = append(members, models.Member{ID: a.ID, Name: a.Name, Role: role, Color: a.Color})
	s.Members = members
	return s
}

func reduceUpdateMember(s State, a UpdateMember) State {
	idx := -1
	for i := range s.Members {
		if s.Members[i].ID == a.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}
	members := append([]models.Member{}, s.Members...)
	m := members[idx]
	if a.Name != nil {
		m.Name = *a.Name
	}
	if a.Role != nil {
		m.Role = *a.Role
	}
	if a.Color != nil {
		m.Color = *a.Color
	}
	members[idx] = m
	s.Members = members
	return s
}

func reduceDeleteMember(s State, a DeleteMember) State {
	// The primary member is indelible.
	if a.ID == constants.PrimaryMemberID {
		return s
	}
	if _, exists := s.MemberByID(a.ID); !exists {
		return s
	}
	members := make([]models.Member, 0, len(s.Members))
	for _, m := range s.Members {
		if m.ID != a.ID {
			members = append(members, m)
		}
	}
	s.Members = members

	if _, ok := s.OpenByMember[a.ID]; ok {
		open := cloneStringMap(s.OpenByMember)
		delete(open, a.ID)
		s.OpenByMember = open
	}
	if _, ok := s.ActiveSessions[a.ID]; ok {
		sessions := cloneSessions(s.ActiveSessions)
		delete(sessions, a.ID)
		s.ActiveSessions = sessions
	}
	if s.CurrentMemberID == a.ID {
		s.CurrentMemberID = constants.PrimaryMemberID
	}
	return s
}

func reduceAddGoal(s State, a AddGoal) State {
	if a.ID == "" {
		return s
	}
	if _, exists := s.GoalByID(a.ID); exists {
		return s
	}
	member := a.MemberID
	if member == "" {
		member = s.CurrentMemberID
	}
	period := a.Period
	if period == "" {
		period = models.PeriodDay
	}
	goals := append([]models.Goal{}, s.Goals...)
	goals = append(goals, models.Goal{
		ID:          a.ID,
		MemberID:    member,
		Title:       a.Title,
		Category:    a.Category,
		TargetValue: a.TargetValue,
		Period:      period,
	})
	s.Goals = goals
	return s
}

func reduceUpdateGoal(s State, a UpdateGoal) State {
	for i := range s.Goals {
		if s.Goals[i].ID == a.ID {
			goals := append([]models.Goal{}, s.Goals...)
			goals[i] = a.Patch.Apply(goals[i])
			s.Goals = goals
			return s
		}
	}
	return s
}

func reduceToggleSession(s State, a ToggleSession) State {
	sessions := cloneSessions(s.ActiveSessions)
	if sessions[a.MemberID] != nil {
		sessions[a.MemberID] = nil
		s.ActiveSessions = sessions
		return s
	}
	typeID := a.SessionTypeID
	if typeID == "" {
		if types := s.SessionTypes[a.MemberID]; len(types) > 0 {
			typeID = types[0].ID
		}
	}
	sessions[a.MemberID] = &models.ActiveSession{SessionTypeID: typeID, StartedAt: a.Now}
	s.ActiveSessions = sessions
	return s
}

func reduceAddSessionType(s State, a AddSessionType) State {
	if a.MemberID == "" || a.SessionType.ID == "" {
		return s
	}
	for _, st := range s.SessionTypes[a.MemberID] {
		if st.ID == a.SessionType.ID {
			return s
		}
	}
	types := cloneSessionTypes(s.SessionTypes)
	types[a.MemberID] = append(types[a.MemberID], a.SessionType)
	s.SessionTypes = types
	return s
}

func reduceUpdateSessionType(s State, a UpdateSessionType) State {
	for i, st := range s.SessionTypes[a.MemberID] {
		if st.ID == a.ID {
			types := cloneSessionTypes(s.SessionTypes)
			types[a.MemberID][i] = a.Patch.Apply(st)
			s.SessionTypes = types
			return s
		}
	}
	return s
}

func reduceDeleteSessionType(s State, a DeleteSessionType) State {
	existing := s.SessionTypes[a.MemberID]
	idx := -1
	for i, st := range existing {
		if st.ID == a.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}
	types := cloneSessionTypes(s.SessionTypes)
	types[a.MemberID] = append(types[a.MemberID][:idx], types[a.MemberID][idx+1:]...)
	s.SessionTypes = types

	// Deactivate the session if it referenced the deleted type.
	if active := s.ActiveSessions[a.MemberID]; active != nil && active.SessionTypeID == a.ID {
		sessions := cloneSessions(s.ActiveSessions)
		sessions[a.MemberID] = nil
		s.ActiveSessions = sessions
	}
	return s
}

func reduceLoadState(s State, a LoadState) State {
	if a.Members != nil {
		s.Members = append([]models.Member{}, a.Members...)
	}
	if a.Categories != nil {
		s.Categories = cloneCategories(a.Categories)
	}
	if a.Goals != nil {
		s.Goals = append([]models.Goal{}, a.Goals...)
	}
	if a.Activities != nil {
		// The remote log replaces the local one, but in-flight open
		// activities survive the merge so a running timer is never lost to
		// hydration.
		acts := append([]models.Activity{}, a.Activities...)
		open := map[string]string{}
		for member, id := range s.OpenByMember {
			local, ok := s.ActivityByID(id)
			if !ok || !local.Open() {
				continue
			}
			dup := false
			for _, r := range acts {
				if r.ID == id {
					dup = true
					break
				}
			}
			if !dup {
				acts = append(acts, local)
			}
			open[member] = id
		}
		sortActivitiesDesc(acts)
		s.Activities = acts
		s.OpenByMember = open
	}
	if a.Theme != "" {
		s.Theme = a.Theme
	}
	if a.CurrentMemberID != "" {
		if _, ok := memberIn(a.Members, s.Members, a.CurrentMemberID); ok {
			s.CurrentMemberID = a.CurrentMemberID
		}
	}
	if a.ActiveSessions != nil {
		s.ActiveSessions = cloneSessions(a.ActiveSessions)
	}
	if a.SessionTypes != nil {
		s.SessionTypes = cloneSessionTypes(a.SessionTypes)
	}
	if a.AcknowledgedReminders != nil {
		s.AcknowledgedReminders = append([]string{}, a.AcknowledgedReminders...)
	}
	if a.CustomRules != nil {
		s.CustomRules = cloneStringMap(a.CustomRules)
	}
	// A locally set PIN is only replaced when the remote carries one.
	if a.ParentPin != nil {
		s.ParentPin = *a.ParentPin
	}
	return s.Normalize()
}

func memberIn(loaded, local []models.Member, id string) (models.Member, bool) {
	for _, m := range loaded {
		if m.ID == id {
			return m, true
		}
	}
	for _, m := range local {
		if m.ID == id {
			return m, true
		}
	}
	return models.Member{}, false
}
