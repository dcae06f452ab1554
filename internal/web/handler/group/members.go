package group

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/splitledger/splitledger/internal/db/controller/identity"
	groups "github.com/splitledger/splitledger/internal/group"
)

// reference builds the identity reference of a user from the optional request keys.
func reference(user *string, userID *uint64) identity.Spec {
	return identity.Spec{ID: userID, Handle: user}
}

// memberSpecs turns the raw members list of a create request into references.
// Entries that are not objects or carry no usable key come back empty and are
// reported as malformed by the group service.
func memberSpecs(raw []json.RawMessage) []groups.MemberSpec {
	specs := make([]groups.MemberSpec, 0, len(raw))

	for _, entry := range raw {
		spec := groups.MemberSpec{Raw: compact(entry)}

		var m memberEntry
		if err := json.Unmarshal(entry, &m); err == nil {
			spec.Spec = reference(m.User, m.UserID)
		}

		specs = append(specs, spec)
	}

	return specs
}

// addUserSpec builds the reference for an add_user request.
func addUserSpec(in *addUserInput) groups.MemberSpec {
	spec := groups.MemberSpec{Spec: reference(in.User, in.UserID)}

	switch {
	case in.UserID != nil:
		spec.Raw = strconv.FormatUint(*in.UserID, 10)
	case in.User != nil:
		spec.Raw = *in.User
	}

	return spec
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}

	return buf.String()
}
