package models

import "strings"

// PartitionPrefix is prepended to every derived partition name.
const PartitionPrefix = "org_"

// PartitionName derives the data partition name for an organization name.
// It is a pure function of the name: lowercase, spaces to underscores, any
// rune that is not a valid identifier character dropped. The mapping is
// lossy - case or punctuation variants of a name derive the same partition
// name - so exclusive partition ownership is enforced by the registry's
// partition_name unique constraint and the lifecycle manager's ownership
// check on rename, not by this function.
func PartitionName(orgName string) string {
	s := strings.ToLower(orgName)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return -1
	}, s)
	return PartitionPrefix + s
}
