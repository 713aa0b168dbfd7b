package warehouse

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/erpbridge/backend/internal/domain/scope"
	"github.com/erpbridge/backend/internal/domain/shared"
)

// Role classifies who owns the goods physically sitting in a warehouse.
type Role string

const (
	// RoleOwn is the tenant's own stock
	RoleOwn Role = "OWN"
	// RoleConsigned is third-party goods held on consignment at the tenant's premises
	RoleConsigned Role = "CON"
	// RoleVendorConsigned is the tenant's goods held at a third party's premises
	RoleVendorConsigned Role = "VCON"
)

// Priority returns the allocation priority of the role. Lower values are
// depleted first: own stock before consigned, consigned before vendor-held.
func (r Role) Priority() int {
	switch r {
	case RoleConsigned:
		return 1
	case RoleVendorConsigned:
		return 2
	default:
		return 0
	}
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleOwn || r == RoleConsigned || r == RoleVendorConsigned
}

// Label returns the user-facing description of the role on delivery lines.
func (r Role) Label() string {
	switch r {
	case RoleConsigned:
		return "Consignación recibida"
	case RoleVendorConsigned:
		return "Consignación en terceros"
	default:
		return "Stock propio"
	}
}

// Token is the decoded form of a canonical warehouse name. The canonical
// name is the only serialized representation; everything else in the
// subsystem works with the decoded fields.
//
// Encoding:
//
//	OWN:  "<base> - <ABBR>"
//	CON:  "<base> (CON: <OWNER>) - <ABBR>"
//	VCON: "<base> (VCON: <OWNER>) - <ABBR>"
//
// Owner codes are sanitized to [A-Z0-9], so a base name that merely
// contains parentheses cannot be confused with a role tag.
type Token struct {
	BaseCode string
	Role     Role
	Owner    string // set only for CON/VCON
	Scope    scope.Scope
}

// roleTag matches the role parenthetical at the end of an unscoped name.
var roleTag = regexp.MustCompile(`^(.*) \((CON|VCON): ([A-Z0-9]+)\)$`)

// Parse decodes a canonical warehouse name. Names that pre-date the
// ownership convention carry no role tag and decode as RoleOwn. Only a
// blank name fails to parse.
func Parse(canonicalName string, sc scope.Scope) (Token, bool) {
	if strings.TrimSpace(canonicalName) == "" {
		return Token{}, false
	}
	remainder, _ := scope.Strip(canonicalName, sc.Abbr)
	token := Token{BaseCode: remainder, Role: RoleOwn, Scope: sc}
	if m := roleTag.FindStringSubmatch(remainder); m != nil {
		token.BaseCode = m[1]
		token.Role = Role(m[2])
		token.Owner = m[3]
	}
	return token, true
}

// CanonicalName encodes the token back into the ERP-stored name.
// Parse(t.CanonicalName(), t.Scope) returns t for every valid token.
func (t Token) CanonicalName() string {
	name := t.BaseCode
	if t.Role == RoleConsigned || t.Role == RoleVendorConsigned {
		name = fmt.Sprintf("%s (%s: %s)", t.BaseCode, t.Role, t.Owner)
	}
	scoped, _ := scope.Apply(name, t.Scope.Abbr)
	return scoped
}

// maxOwnerCodeLen bounds the owner token embedded in warehouse names so
// the canonical name stays within the ERP's name-field limit.
const maxOwnerCodeLen = 10

// accentFolder strips combining marks after NFD decomposition, so
// "Álvarez Hnos." folds to "Alvarez Hnos." before tokenization.
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeOwnerCode normalizes a free-text counterparty name into the
// short token embedded in canonical warehouse names: accents folded,
// everything outside [A-Z0-9] dropped, truncated to maxOwnerCodeLen.
// It fails with INVALID_OWNER_CODE when nothing survives.
func SanitizeOwnerCode(raw string) (string, error) {
	folded, _, err := transform.String(accentFolder, raw)
	if err != nil {
		folded = raw
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(folded) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() == maxOwnerCodeLen {
			break
		}
	}
	if b.Len() == 0 {
		return "", shared.NewDomainError(shared.ErrInvalidOwnerCode.Code,
			fmt.Sprintf("counterparty %q yields an empty owner code", raw))
	}
	return b.String(), nil
}
