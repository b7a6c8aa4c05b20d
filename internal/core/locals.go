package core

const (
	LocalPath       = "path"
	LocalAssets     = "assets"
	LocalBuildStats = "buildStats"
)

// BuildLocals assembles the locals of one render invocation. User locals are
// merged last and win on key collisions with the reserved keys.
func BuildLocals(outputPath string, assets map[string]string, buildStats any, user map[string]any) map[string]any {
	locals := make(map[string]any, 3+len(user))
	locals[LocalPath] = outputPath
	locals[LocalAssets] = assets
	locals[LocalBuildStats] = buildStats

	for k, v := range user {
		locals[k] = v
	}
	return locals
}
