package core

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// OS is a host operating system known to the marketplace.
type OS string

const (
	OSDarwin  OS = "darwin"
	OSLinux   OS = "linux"
	OSWindows OS = "windows"
)

// Arch is a host CPU family known to the marketplace.
type Arch string

const (
	ArchX64   Arch = "x64"
	ArchArm64 Arch = "arm64"
)

// Platform is a marketplace target-platform tag.
type Platform string

const (
	PlatformWin32X64    Platform = "win32-x64"
	PlatformWin32Arm64  Platform = "win32-arm64"
	PlatformDarwinX64   Platform = "darwin-x64"
	PlatformDarwinArm64 Platform = "darwin-arm64"
	PlatformLinuxX64    Platform = "linux-x64"
	PlatformLinuxArm64  Platform = "linux-arm64"
	PlatformLinuxArmhf  Platform = "linux-armhf"
	PlatformAlpineX64   Platform = "alpine-x64"
	PlatformAlpineArm64 Platform = "alpine-arm64"
	PlatformWeb         Platform = "web"
	PlatformUniversal   Platform = "universal"
)

var knownPlatforms = map[Platform]bool{
	PlatformWin32X64:    true,
	PlatformWin32Arm64:  true,
	PlatformDarwinX64:   true,
	PlatformDarwinArm64: true,
	PlatformLinuxX64:    true,
	PlatformLinuxArm64:  true,
	PlatformLinuxArmhf:  true,
	PlatformAlpineX64:   true,
	PlatformAlpineArm64: true,
	PlatformWeb:         true,
	PlatformUniversal:   true,
}

// ParsePlatform validates a marketplace tag. The empty string is accepted
// and means "untagged".
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if p == "" || knownPlatforms[p] {
		return p, nil
	}
	return "", fmt.Errorf("unknown target platform %q", s)
}

// IsSpecific reports whether the tag names a concrete OS/CPU pair.
func (p Platform) IsSpecific() bool {
	return p != "" && p != PlatformUniversal && p != PlatformWeb
}

// HostArchitecture is the resolved identity of the running machine.
type HostArchitecture struct {
	OS   OS
	Arch Arch
}

// Platform returns the exact marketplace tag for the host.
func (h HostArchitecture) Platform() Platform {
	prefix := string(h.OS)
	if h.OS == OSWindows {
		prefix = "win32"
	}
	return Platform(prefix + "-" + string(h.Arch))
}

func (h HostArchitecture) String() string {
	return string(h.OS) + "/" + string(h.Arch)
}

// ResolveHost classifies the running environment.
func ResolveHost() (HostArchitecture, error) {
	return ResolveHostFrom(runtime.GOOS, runtime.GOARCH)
}

// ResolveHostFrom classifies a GOOS/GOARCH pair.
func ResolveHostFrom(goos, goarch string) (HostArchitecture, error) {
	var h HostArchitecture

	switch goos {
	case "darwin":
		h.OS = OSDarwin
	case "linux":
		h.OS = OSLinux
	case "windows":
		h.OS = OSWindows
	default:
		return h, newError(ErrUnsupportedPlatform, "", fmt.Errorf("operating system %q", goos))
	}

	switch goarch {
	case "amd64":
		h.Arch = ArchX64
	case "arm64":
		h.Arch = ArchArm64
	default:
		return h, newError(ErrUnsupportedPlatform, "", fmt.Errorf("architecture %q", goarch))
	}

	return h, nil
}

// Match tiers, best first.
const (
	tierExact = iota
	tierUniversal
	tierUntagged
	tierNone
)

func matchTier(a AssetDescriptor, want Platform) int {
	switch a.Platform {
	case want:
		return tierExact
	case PlatformUniversal:
		return tierUniversal
	case "":
		return tierUntagged
	default:
		return tierNone
	}
}

// SelectBestAsset picks the asset to install on host. Exact platform matches
// win over "universal" packages, which win over untagged legacy packages.
// Within a tier the highest version wins; remaining ties go to the earliest
// candidate.
func SelectBestAsset(candidates []AssetDescriptor, host HostArchitecture) (AssetDescriptor, error) {
	return selectAsset(candidates, host.Platform(), host.String())
}

// SelectAssetForPlatform is SelectBestAsset for an explicit platform tag
// instead of the running host, e.g. when downloading for another machine.
func SelectAssetForPlatform(candidates []AssetDescriptor, platform Platform) (AssetDescriptor, error) {
	return selectAsset(candidates, platform, string(platform))
}

func selectAsset(candidates []AssetDescriptor, want Platform, host string) (AssetDescriptor, error) {
	best := -1
	bestTier := tierNone
	var bestVersion *semver.Version

	for i, c := range candidates {
		tier := matchTier(c, want)
		if tier == tierNone {
			continue
		}

		v := parseVersion(c.Version)
		switch {
		case best == -1, tier < bestTier:
		case tier == bestTier && versionGreater(v, bestVersion):
		default:
			continue
		}
		best, bestTier, bestVersion = i, tier, v
	}

	if best == -1 {
		var id string
		if len(candidates) > 0 {
			id = candidates[0].ExtensionID
		}
		return AssetDescriptor{}, newError(ErrNoCompatibleAsset, id,
			fmt.Errorf("none of %d candidate(s) match %s (%s)", len(candidates), host, want))
	}

	slog.Debug("selected asset", "extension", candidates[best].ExtensionID,
		"asset", candidates[best].String(), "host", host, "tier", bestTier)
	return candidates[best], nil
}

// parseVersion returns nil for versions that are not valid semver.
func parseVersion(s string) *semver.Version {
	v, err := semver.NewVersion(strings.TrimPrefix(s, "v"))
	if err != nil {
		return nil
	}
	return v
}

// versionGreater orders parsable versions above unparsable ones.
func versionGreater(a, b *semver.Version) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.GreaterThan(b)
	}
}
