package service

import "sync"

// CourseLocks serializes mutations per course id. Different courses never
// contend.
type CourseLocks struct {
	mu    sync.Mutex
	locks map[int64]*courseLock
}

type courseLock struct {
	mu   sync.Mutex
	refs int
}

func NewCourseLocks() *CourseLocks {
	return &CourseLocks{locks: make(map[int64]*courseLock)}
}

// Lock blocks until the course is free and returns its unlock function.
func (l *CourseLocks) Lock(courseID int64) func() {
	l.mu.Lock()
	cl, ok := l.locks[courseID]
	if !ok {
		cl = &courseLock{}
		l.locks[courseID] = cl
	}
	cl.refs++
	l.mu.Unlock()

	cl.mu.Lock()
	return func() {
		cl.mu.Unlock()
		l.mu.Lock()
		cl.refs--
		if cl.refs == 0 {
			delete(l.locks, courseID)
		}
		l.mu.Unlock()
	}
}

func (l *CourseLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
