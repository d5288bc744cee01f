package rbac

// Default portal policy. Employees read and take quizzes; editors also
// author knowledge-base content.
var RolePermissions = map[string][]string{
	"employee": {
		"article:view",
		"quiz:take",
		"folder:view",
	},
	"editor": {
		"article:view",
		"article:edit",
		"article:delete",
		"folder:view",
		"folder:edit",
		"quiz:take",
		"quiz:edit",
	},
	"admin": {
		"*", // everything
	},
}
