package model

type QuizRoleName string

const (
	RoleCreator QuizRoleName = "creator"
	RoleTeacher QuizRoleName = "teacher"
	RoleMonitor QuizRoleName = "monitor"
	RoleStudent QuizRoleName = "student"
)

type Permission string

const (
	PermViewResults     Permission = "view_results"
	PermEditQuiz        Permission = "edit_quiz"
	PermDeleteQuiz      Permission = "delete_quiz"
	PermManageRoles     Permission = "manage_roles"
	PermConfigureAccess Permission = "configure_access"
	PermSendInvitations Permission = "send_invitations"
	PermViewAnalytics   Permission = "view_analytics"
	PermTakeQuiz        Permission = "take_quiz"
)

// rolePermissions is the flat role -> permissions table. There is no
// inheritance between roles; each entry lists everything the role grants.
var rolePermissions = map[QuizRoleName][]Permission{
	RoleCreator: {
		PermViewResults, PermEditQuiz, PermDeleteQuiz, PermManageRoles,
		PermConfigureAccess, PermSendInvitations, PermViewAnalytics, PermTakeQuiz,
	},
	RoleTeacher: {
		PermViewResults, PermEditQuiz, PermSendInvitations, PermViewAnalytics, PermTakeQuiz,
	},
	RoleMonitor: {
		PermViewResults, PermViewAnalytics,
	},
	RoleStudent: {
		PermTakeQuiz,
	},
}

// HasPermission reports whether the role grants the permission.
// Unknown role names grant nothing.
func (r QuizRoleName) HasPermission(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// Valid reports whether the role name is one of the four known roles.
func (r QuizRoleName) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// QuizRole assigns a per-quiz role to a user. A user holds at most one
// role per quiz; reassignment overwrites, never duplicates.
// swagger:model QuizRole
type QuizRole struct {
	UUIDBase
	QuizID     string       `gorm:"uniqueIndex:idx_role_quiz_user;size:36;not null" json:"quizId"`
	UserID     uint         `gorm:"uniqueIndex:idx_role_quiz_user;not null" json:"userId"`
	User       *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role       QuizRoleName `gorm:"size:20;not null" json:"role"`
	AssignedBy uint         `json:"assignedBy"`
}

func (QuizRole) TableName() string {
	return "quiz_roles"
}
