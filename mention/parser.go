// Package mention extracts user references embedded in message content.
//
// Mentions use the structured inline form @[DisplayName](UserId). The
// identifier is embedded directly in the text instead of being inferred by
// display-name matching, which is ambiguous (duplicate names, renames,
// case and whitespace variants).
package mention

import (
	"strings"

	"github.com/google/uuid"
)

// Resolver turns the raw identifier found between the parentheses into a
// user ID. Returning false drops the candidate without aborting the scan.
type Resolver func(raw string) (uuid.UUID, bool)

// UUIDResolver accepts identifiers that are well-formed UUIDs verbatim.
func UUIDResolver(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Parse scans content left to right in a single pass and returns the set of
// mentioned user IDs in first-occurrence order, without duplicates. A
// self-mention is kept: it still marks the message as addressed (visible to
// the author alone), the dispatcher just never notifies the sender.
//
// A candidate span must contain the closing bracket immediately followed by
// an opening parenthesis, and the closing parenthesis, to be matched.
// On a malformed span the scan resumes right after the opening bracket, so
// unterminated patterns never produce a mention and never swallow a later
// well-formed one.
func Parse(content string, resolve Resolver) []uuid.UUID {
	var mentions []uuid.UUID
	seen := make(map[uuid.UUID]struct{})

	for i := 0; i < len(content); {
		if content[i] != '@' || i+1 >= len(content) || content[i+1] != '[' {
			i++
			continue
		}

		rest := content[i+2:]
		nameEnd := strings.IndexByte(rest, ']')
		if nameEnd < 0 || nameEnd+1 >= len(rest) || rest[nameEnd+1] != '(' {
			i += 2
			continue
		}

		idStart := nameEnd + 2
		idLen := strings.IndexByte(rest[idStart:], ')')
		if idLen < 0 {
			i += 2
			continue
		}

		raw := rest[idStart : idStart+idLen]
		// Jump past the closing parenthesis: matches never overlap.
		i += 2 + idStart + idLen + 1

		id, ok := resolve(raw)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		mentions = append(mentions, id)
	}
	return mentions
}
