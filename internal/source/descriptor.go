package source

import (
	"strings"

	"filtersync/internal/errorwrapper"
)

// Descriptor identifies a remote source as a source-type tag plus a
// type-specific payload. Its canonical string form is the key used by the
// watermark store.
type Descriptor struct {
	Type    string
	Payload string
}

// String returns the canonical type:payload form of the descriptor
func (d Descriptor) String() string {
	return d.Type + ":" + d.Payload
}

// builtinAliases maps friendly shorthands to fully qualified descriptors
var builtinAliases = map[string]string{
	"neversink-lite": "github:NeverSinkDev/NeverSink-PoE2litefilter",
	"cdrg":           "github:cdrg/cdr-poe2filter",
}

// Parser expands aliases and splits raw descriptor strings. Payload grammar
// is not validated here; the resolver owns per-type payload shapes.
type Parser struct {
	aliases map[string]string
}

// NewParser creates a parser whose alias table is the built-in shorthands
// merged with the given user-defined aliases. User entries win on conflict.
func NewParser(userAliases map[string]string) *Parser {
	aliases := make(map[string]string, len(builtinAliases)+len(userAliases))
	for shorthand, canonical := range builtinAliases {
		aliases[shorthand] = canonical
	}
	for shorthand, canonical := range userAliases {
		aliases[shorthand] = canonical
	}
	return &Parser{aliases: aliases}
}

// Parse canonicalizes raw input and splits it into a Descriptor.
// Input matching a known alias is expanded first; anything else passes
// through unchanged.
func (p *Parser) Parse(raw string) (Descriptor, error) {
	canonical := raw
	if expanded, ok := p.aliases[raw]; ok {
		canonical = expanded
	}

	index := strings.Index(canonical, ":")
	if index < 0 {
		return Descriptor{}, errorwrapper.NewMalformedDescriptorError(raw, "must be in the form type:value")
	}

	return Descriptor{
		Type:    canonical[:index],
		Payload: canonical[index+1:],
	}, nil
}
