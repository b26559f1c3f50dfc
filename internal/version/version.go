package version

import "runtime/debug"

var (
	// Version 版本号，构建时可通过 -ldflags 覆盖
	Version = "1.0.0"

	// BuildTime 构建时间，通过 -ldflags 注入
	BuildTime = ""

	// GitCommit Git 提交哈希，通过 -ldflags 注入
	GitCommit = ""
)

func init() {
	// 未注入提交哈希时，尝试使用 go build 记录的 VCS 信息
	if GitCommit != "" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			GitCommit = setting.Value
		}
	}
}

// GetVersion 获取完整版本信息
func GetVersion() string {
	version := "v" + Version
	if BuildTime != "" {
		version += " (built " + BuildTime + ")"
	}
	if len(GitCommit) >= 8 {
		version += " commit " + GitCommit[:8]
	}
	return version
}

// GetShortVersion 获取简短版本号
func GetShortVersion() string {
	return "v" + Version
}
