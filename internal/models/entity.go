package models

// EntityKind names a backend collection. It doubles as the cache namespace.
type EntityKind string

const (
	EntityCourses              EntityKind = "courses"
	EntityBatches              EntityKind = "batches"
	EntityStudents             EntityKind = "students"
	EntityUsers                EntityKind = "users"
	EntityInstructors          EntityKind = "instructors"
	EntityResults              EntityKind = "results"
	EntityNotices              EntityKind = "notices"
	EntityRoutines             EntityKind = "routines"
	EntityBatchChangeRequests  EntityKind = "batch-change-requests"
	EntityCourseChangeRequests EntityKind = "course-change-requests"
)

var backendPaths = map[EntityKind]string{
	EntityNotices:  "/notice",
	EntityRoutines: "/routine",
}

// BackendPath is the REST collection path on the course backend.
func (k EntityKind) BackendPath() string {
	if p, ok := backendPaths[k]; ok {
		return p
	}
	return "/" + string(k)
}
