package status

import (
	"fmt"
	"strconv"

	"github.com/disiqueira/gotree/v3"
)

// Render formats the summary as a tree for console display.
func (s *Summary) Render() string {
	tree := gotree.New("synodic release repository")

	roles := tree.Add("roles")
	for _, role := range s.Roles {
		roles.Add(role.describe())
	}

	if !s.TargetsPresent {
		tree.Add("targets: not found")

		return tree.Print()
	}

	targetsNode := tree.Add(fmt.Sprintf("targets: %d version(s)", s.VersionCount))

	for _, pointer := range s.Pointers {
		targetsNode.Add(pointer.Name + " -> " + pointer.Version)
	}

	if len(s.RecentVersions) > 0 {
		versions := targetsNode.Add("versions")
		for _, version := range s.RecentVersions {
			versions.Add(version)
		}

		if s.RemainderCount > 0 {
			versions.Add(fmt.Sprintf("... and %d more", s.RemainderCount))
		}
	}

	return tree.Print()
}

// describe renders one role line.
func (r RoleStatus) describe() string {
	if !r.Present {
		return r.Role + ": not found"
	}

	version := "?"
	if r.Version > 0 {
		version = strconv.Itoa(r.Version)
	}

	expires := r.Expires
	if expires == "" {
		expires = "?"
	}

	line := fmt.Sprintf("%s: version %s, expires %s", r.Role, version, expires)

	switch r.Health {
	case HealthExpired:
		return line + " [EXPIRED]"
	case HealthExpiringSoon:
		return line + fmt.Sprintf(" [%d days left, review soon]", r.DaysLeft)
	case HealthOK:
		return line + fmt.Sprintf(" [%d days left]", r.DaysLeft)
	default:
		return line
	}
}
