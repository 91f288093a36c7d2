// Package testutil provides in-memory stand-ins for the Postgres
// repositories and helpers for integration tests against a real database.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"courseflow/internal/course"
	"courseflow/internal/model"
	"courseflow/internal/repository"
)

// Store is an in-memory implementation of every repository interface. It
// mirrors the Postgres semantics the services rely on: append-at-end
// ordering, cascading deletes, guarded status updates and all-or-nothing
// reorders.
type Store struct {
	mu sync.Mutex

	nextID int64
	now    func() time.Time

	users       map[string]model.User
	courses     map[int64]model.Course
	chapters    map[int64]model.Chapter
	sections    map[int64]model.Section
	tasks       map[int64]model.ReviewTask
	media       map[int64]model.Media
	groups      map[int64]model.QuestionGroup
	items       map[int64][]model.QuestionGroupItem
	enrollments map[string]bool

	// Calls counts repository calls by method name.
	Calls map[string]int
}

var (
	_ repository.CourseRepository        = (*Store)(nil)
	_ repository.ChapterRepository       = (*Store)(nil)
	_ repository.SectionRepository       = (*Store)(nil)
	_ repository.ReviewRepository        = (*Store)(nil)
	_ repository.UserRepository          = (*Store)(nil)
	_ repository.MediaRepository         = (*Store)(nil)
	_ repository.QuestionGroupRepository = (*Store)(nil)
	_ repository.EnrollmentRepository    = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		now:         func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) },
		users:       map[string]model.User{},
		courses:     map[int64]model.Course{},
		chapters:    map[int64]model.Chapter{},
		sections:    map[int64]model.Section{},
		tasks:       map[int64]model.ReviewTask{},
		media:       map[int64]model.Media{},
		groups:      map[int64]model.QuestionGroup{},
		items:       map[int64][]model.QuestionGroupItem{},
		enrollments: map[string]bool{},
		Calls:       map[string]int{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) call(name string) {
	s.Calls[name]++
}

func enrollmentKey(userID string, courseID int64) string {
	return fmt.Sprintf("%s/%d", userID, courseID)
}

// Seeding helpers.

func (s *Store) AddUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Role == "" {
		u.Role = model.UserRoleMember
	}
	s.users[u.UserID] = u
}

func (s *Store) AddMedia(m model.Media) model.Media {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		m.ID = s.id()
	}
	s.media[m.ID] = m
	return m
}

func (s *Store) RemoveMedia(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.media, id)
}

func (s *Store) AddQuestionGroup(g model.QuestionGroup, items ...model.QuestionGroupItem) model.QuestionGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == 0 {
		g.ID = s.id()
	}
	s.groups[g.ID] = g
	for i := range items {
		if items[i].ID == 0 {
			items[i].ID = s.id()
		}
		items[i].GroupID = g.ID
	}
	s.items[g.ID] = items
	return g
}

func (s *Store) RemoveQuestionGroup(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.groups, id)
	delete(s.items, id)
}

func (s *Store) Enroll(userID string, courseID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enrollments[enrollmentKey(userID, courseID)] = true
}

// SetCourseStatus forces a status, bypassing the lifecycle.
func (s *Store) SetCourseStatus(courseID int64, status model.CourseStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.courses[courseID]
	c.Status = status
	s.courses[courseID] = c
}

// Users

func (s *Store) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("CreateUser")
	existing, ok := s.users[u.UserID]
	if ok {
		u.Role = existing.Role
		u.CreatedAt = existing.CreatedAt
	} else {
		u.Role = model.UserRoleMember
		u.CreatedAt = s.now()
	}
	u.UpdatedAt = s.now()
	s.users[u.UserID] = *u
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("GetUserByID")
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// Courses

func (s *Store) CreateCourse(_ context.Context, c *model.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("CreateCourse")
	c.ID = s.id()
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	s.courses[c.ID] = *c
	return nil
}

func (s *Store) GetCourseByID(_ context.Context, courseID int64) (*model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("GetCourseByID")
	c, ok := s.courses[courseID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Store) GetCoursesByCreator(_ context.Context, creatorID string) ([]model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("GetCoursesByCreator")
	out := []model.Course{}
	for _, c := range s.courses {
		if c.CreatorID == creatorID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) GetCoursesByStatus(_ context.Context, status model.CourseStatus, limit, offset int) ([]model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("GetCoursesByStatus")
	out := []model.Course{}
	for _, c := range s.courses {
		if c.Status == status {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, limit, offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (s *Store) UpdateCourse(_ context.Context, c *model.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("UpdateCourse")
	stored, ok := s.courses[c.ID]
	if !ok {
		return fmt.Errorf("updating course %d: not found", c.ID)
	}
	stored.Title = c.Title
	stored.Description = c.Description
	stored.CoverURL = c.CoverURL
	stored.InstitutionID = c.InstitutionID
	stored.PaymentType = c.PaymentType
	stored.PriceCents = c.PriceCents
	stored.UpdatedAt = s.now()
	s.courses[c.ID] = stored
	*c = stored
	return nil
}

func (s *Store) UpdateCourseStatus(_ context.Context, c *model.Course, from model.CourseStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("UpdateCourseStatus")
	return s.updateStatusLocked(c, from)
}

func (s *Store) updateStatusLocked(c *model.Course, from model.CourseStatus) error {
	stored, ok := s.courses[c.ID]
	if !ok || stored.Status != from {
		return repository.ErrStatusConflict
	}
	stored.Status = c.Status
	stored.ReviewComment = c.ReviewComment
	stored.SubmittedAt = c.SubmittedAt
	stored.ReviewStartedAt = c.ReviewStartedAt
	stored.ReviewedAt = c.ReviewedAt
	stored.ReviewerID = c.ReviewerID
	stored.UpdatedAt = c.UpdatedAt
	s.courses[c.ID] = stored
	*c = stored
	return nil
}

// Chapters

func (s *Store) CreateChapter(_ context.Context, ch *model.Chapter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("CreateChapter")
	var indices []int
	for _, existing := range s.chapters {
		if existing.CourseID == ch.CourseID {
			indices = append(indices, existing.OrderIndex)
		}
	}
	ch.ID = s.id()
	ch.OrderIndex = course.NextOrderIndex(indices)
	ch.CreatedAt = s.now()
	ch.UpdatedAt = ch.CreatedAt
	s.chapters[ch.ID] = *ch
	return nil
}

func (s *Store) GetChapterByID(_ context.Context, chapterID int64) (*model.Chapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("GetChapterByID")
	ch, ok := s.chapters[chapterID]
	if !ok {
		return nil, nil
	}
	return &ch, nil
}

func (s *Store) GetChaptersByCourse(_ context.Context, courseID int64) ([]model.Chapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("GetChaptersByCourse")
	return s.chaptersOfLocked(courseID), nil
}

func (s *Store) chaptersOfLocked(courseID int64) []model.Chapter {
	out := []model.Chapter{}
	for _, ch := range s.chapters {
		if ch.CourseID == courseID {
			out = append(out, ch)
		}
	}
	course.SortChapters(out)
	return out
}

func (s *Store) UpdateChapter(_ context.Context, ch *model.Chapter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("UpdateChapter")
	stored, ok := s.chapters[ch.ID]
	if !ok {
		return fmt.Errorf("updating chapter %d: not found", ch.ID)
	}
	stored.Title = ch.Title
	stored.Description = ch.Description
	stored.AccessType = ch.AccessType
	stored.UpdatedAt = s.now()
	s.chapters[ch.ID] = stored
	*ch = stored
	return nil
}

func (s *Store) DeleteChapter(_ context.Context, chapterID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("DeleteChapter")
	delete(s.chapters, chapterID)
	for id, sec := range s.sections {
		if sec.ChapterID == chapterID {
			delete(s.sections, id)
		}
	}
	return nil
}

func (s *Store) ReorderChapters(_ context.Context, courseID int64, orderedIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("ReorderChapters")
	current := s.chaptersOfLocked(courseID)
	ids := make([]int64, len(current))
	for i, ch := range current {
		ids[i] = ch.ID
	}
	plan, err := course.PlanReorder(ids, orderedIDs)
	if err != nil {
		return err
	}
	for id, idx := range plan {
		ch := s.chapters[id]
		ch.OrderIndex = idx
		s.chapters[id] = ch
	}
	return nil
}

// Sections

func (s *Store) CreateSection(_ context.Context, sec *model.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("CreateSection")
	var indices []int
	for _, existing := range s.sections {
		if existing.ChapterID == sec.ChapterID {
			indices = append(indices, existing.OrderIndex)
		}
	}
	sec.ID = s.id()
	sec.OrderIndex = course.NextOrderIndex(indices)
	sec.CreatedAt = s.now()
	sec.UpdatedAt = sec.CreatedAt
	s.sections[sec.ID] = *sec
	return nil
}

func (s *Store) GetSectionByID(_ context.Context, sectionID int64) (*model.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("GetSectionByID")
	sec, ok := s.sections[sectionID]
	if !ok {
		return nil, nil
	}
	return &sec, nil
}

func (s *Store) GetSectionsByChapter(_ context.Context, chapterID int64) ([]model.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("GetSectionsByChapter")
	return s.sectionsOfLocked(chapterID), nil
}

func (s *Store) sectionsOfLocked(chapterID int64) []model.Section {
	out := []model.Section{}
	for _, sec := range s.sections {
		if sec.ChapterID == chapterID {
			out = append(out, sec)
		}
	}
	course.SortSections(out)
	return out
}

func (s *Store) GetSectionsByCourse(_ context.Context, courseID int64) ([]model.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("GetSectionsByCourse")
	out := []model.Section{}
	for _, ch := range s.chaptersOfLocked(courseID) {
		out = append(out, s.sectionsOfLocked(ch.ID)...)
	}
	return out, nil
}

func (s *Store) UpdateSection(_ context.Context, sec *model.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("UpdateSection")
	stored, ok := s.sections[sec.ID]
	if !ok {
		return fmt.Errorf("updating section %d: not found", sec.ID)
	}
	// Round-trip the binding through its column shape like the database does.
	binding, err := course.DecodeBinding(course.EncodeBinding(sec.Binding))
	if err != nil {
		return err
	}
	stored.Title = sec.Title
	stored.Description = sec.Description
	stored.AccessType = sec.AccessType
	stored.ContentType = sec.ContentType
	stored.EstimatedMinutes = sec.EstimatedMinutes
	stored.Binding = binding
	stored.UpdatedAt = s.now()
	s.sections[sec.ID] = stored
	*sec = stored
	return nil
}

func (s *Store) DeleteSection(_ context.Context, sectionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("DeleteSection")
	delete(s.sections, sectionID)
	return nil
}

func (s *Store) ReorderSections(_ context.Context, chapterID int64, orderedIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("ReorderSections")
	current := s.sectionsOfLocked(chapterID)
	ids := make([]int64, len(current))
	for i, sec := range current {
		ids[i] = sec.ID
	}
	plan, err := course.PlanReorder(ids, orderedIDs)
	if err != nil {
		return err
	}
	for id, idx := range plan {
		sec := s.sections[id]
		sec.OrderIndex = idx
		s.sections[id] = sec
	}
	return nil
}

// Review tasks

func (s *Store) openTaskLocked(courseID int64) (model.ReviewTask, bool) {
	for _, t := range s.tasks {
		if t.CourseID == courseID && t.Decision == model.ReviewDecisionPending {
			return t, true
		}
	}
	return model.ReviewTask{}, false
}

func (s *Store) OpenReview(_ context.Context, c *model.Course, from model.CourseStatus) (*model.ReviewTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("OpenReview")
	if _, ok := s.openTaskLocked(c.ID); ok {
		return nil, fmt.Errorf("opening review task for course %d: duplicate open task", c.ID)
	}
	if err := s.updateStatusLocked(c, from); err != nil {
		return nil, err
	}
	t := model.ReviewTask{ID: s.id(), CourseID: c.ID, Decision: model.ReviewDecisionPending}
	if c.SubmittedAt != nil {
		t.SubmittedAt = *c.SubmittedAt
	}
	s.tasks[t.ID] = t
	return &t, nil
}

func (s *Store) StartReview(_ context.Context, c *model.Course, from model.CourseStatus) (*model.ReviewTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("StartReview")
	t, ok := s.openTaskLocked(c.ID)
	if !ok {
		return nil, fmt.Errorf("starting review task for course %d: no open task", c.ID)
	}
	if err := s.updateStatusLocked(c, from); err != nil {
		return nil, err
	}
	t.ReviewerID = c.ReviewerID
	t.StartedAt = c.ReviewStartedAt
	s.tasks[t.ID] = t
	return &t, nil
}

func (s *Store) CloseReview(_ context.Context, c *model.Course, from model.CourseStatus, decision model.ReviewDecision, comment string) (*model.ReviewTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("CloseReview")
	t, ok := s.openTaskLocked(c.ID)
	if !ok {
		return nil, fmt.Errorf("closing review task for course %d: no open task", c.ID)
	}
	if err := s.updateStatusLocked(c, from); err != nil {
		return nil, err
	}
	t.ReviewerID = c.ReviewerID
	if t.StartedAt == nil {
		t.StartedAt = c.ReviewedAt
	}
	t.Decision = decision
	t.Comment = comment
	t.DecidedAt = c.ReviewedAt
	s.tasks[t.ID] = t
	return &t, nil
}

func (s *Store) GetOpenTasks(_ context.Context, limit, offset int) ([]model.ReviewTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("GetOpenTasks")
	out := []model.ReviewTask{}
	for _, t := range s.tasks {
		if t.Decision == model.ReviewDecisionPending {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (s *Store) GetTasksByCourse(_ context.Context, courseID int64) ([]model.ReviewTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("GetTasksByCourse")
	out := []model.ReviewTask{}
	for _, t := range s.tasks {
		if t.CourseID == courseID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Resources

func (s *Store) GetMediaByID(_ context.Context, mediaID int64) (*model.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("GetMediaByID")
	m, ok := s.media[mediaID]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *Store) GetGroupByID(_ context.Context, groupID int64) (*model.QuestionGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("GetGroupByID")
	g, ok := s.groups[groupID]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (s *Store) GetItemsByGroup(_ context.Context, groupID int64) ([]model.QuestionGroupItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("GetItemsByGroup")
	items := append([]model.QuestionGroupItem{}, s.items[groupID]...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	return items, nil
}

func (s *Store) HasPurchased(_ context.Context, userID string, courseID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call("HasPurchased")
	return s.enrollments[enrollmentKey(userID, courseID)], nil
}

// CallCount reports how often a repository method ran.
func (s *Store) CallCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls[name]
}
