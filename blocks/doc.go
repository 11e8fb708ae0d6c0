// Package blocks models the subset of the Slack Block Kit layout format that
// notification payloads use: a plain_text header, mrkdwn sections, ten-field
// section groups, and a context footer. Constructors build well-formed blocks
// and helpers chunk field lists to the Block Kit per-section limit.
package blocks
