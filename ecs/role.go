package ecs

import (
	"math/bits"
	"strconv"
	"strings"
)

// Role identifies which facet of an entity a component describes.
// The set is closed: every descriptor type in this package reports exactly one Role.
type Role uint8

const (
	RoleTransform Role = iota
	RoleMeshFilter
	RoleRigidBody
	RoleCamera
	RoleScript
	RoleRenderTarget
	RolePostProcessPass
	RoleGuiBinding

	roleCount
)

var roleNames = [roleCount]string{
	RoleTransform:       "Transform",
	RoleMeshFilter:      "MeshFilter",
	RoleRigidBody:       "RigidBody",
	RoleCamera:          "Camera",
	RoleScript:          "Script",
	RoleRenderTarget:    "RenderTarget",
	RolePostProcessPass: "PostProcessPass",
	RoleGuiBinding:      "GuiBinding",
}

func (r Role) String() string {
	if r >= roleCount {
		return "Role(" + strconv.Itoa(int(r)) + ")"
	}
	return roleNames[r]
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r < roleCount
}

// ParseRole returns the role with the given name, ignoring case.
func ParseRole(name string) (Role, bool) {
	for i, n := range roleNames {
		if strings.EqualFold(n, name) {
			return Role(i), true
		}
	}
	return 0, false
}

// Roles returns every declared role in declaration order.
func Roles() []Role {
	out := make([]Role, 0, roleCount)
	for r := Role(0); r < roleCount; r++ {
		out = append(out, r)
	}
	return out
}

// Signature is a bitmask of the roles an entity carries.
type Signature uint32

// SignatureOf builds a signature from the given roles.
func SignatureOf(roles ...Role) Signature {
	var s Signature
	for _, r := range roles {
		s = s.With(r)
	}
	return s
}

func (s Signature) With(r Role) Signature {
	return s | 1<<r
}

func (s Signature) Has(r Role) bool {
	return s&(1<<r) != 0
}

// Contains reports whether every role in other is also present in s.
func (s Signature) Contains(other Signature) bool {
	return s&other == other
}

// Len returns the number of roles in the signature.
func (s Signature) Len() int {
	return bits.OnesCount32(uint32(s))
}

// Roles lists the roles in the signature in declaration order.
func (s Signature) Roles() []Role {
	out := make([]Role, 0, s.Len())
	for r := Role(0); r < roleCount; r++ {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s Signature) String() string {
	names := make([]string, 0, s.Len())
	for _, r := range s.Roles() {
		names = append(names, r.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
