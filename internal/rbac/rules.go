package rbac

// Default policy for paper composition. Teachers compose, save and export;
// approval and deletion stay with admins.
var RolePermissions = map[string][]string{
	"reviewer": {
		"paper:view",
	},
	"teacher": {
		"paper:create",
		"paper:edit",
		"paper:view",
		"paper:save",
		"paper:export",
		"suggestion:fetch",
		"source:upload",
	},
	"admin": {
		"*", // everything
	},
}
