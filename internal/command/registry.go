package command

import (
	"errors"
	"fmt"
	"strings"
)

// ID identifies a dashboard command
type ID int

const (
	Unknown ID = iota
	Toggle
	Play
	Next
	Previous
	Volume
	Shuffle
	Repeat
	Search
	Queue
	Playlists
	Open
	Create
	Save
	Remove
	Show
	Help
	Quit
)

var (
	// ErrEmpty is returned for a blank submit
	ErrEmpty = errors.New("empty command")
	// ErrUnknownCommand is returned when the verb is not in the registry
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned when the arguments do not fit the command
	ErrUsage = errors.New("usage")
)

// Spec describes one command and every verb that selects it
type Spec struct {
	ID      ID
	Verbs   []string
	Args    string
	Summary string
}

// Name is the canonical verb
func (s Spec) Name() string {
	return s.Verbs[0]
}

// registry is ordered as it appears in help
var registry = []Spec{
	{ID: Toggle, Verbs: []string{"pause", "toggle", "pp"}, Summary: "pause if playing, resume otherwise"},
	{ID: Play, Verbs: []string{"play", "resume"}, Args: "[N]", Summary: "resume, or play entry N of the list"},
	{ID: Next, Verbs: []string{"next", "n", "skip"}, Summary: "skip to the next track"},
	{ID: Previous, Verbs: []string{"prev", "previous", "back", "b"}, Summary: "go back to the previous track"},
	{ID: Volume, Verbs: []string{"volume", "vol", "v"}, Args: "<0-100>", Summary: "set the volume"},
	{ID: Shuffle, Verbs: []string{"shuffle", "sh"}, Args: "[on|off]", Summary: "toggle or set shuffle"},
	{ID: Repeat, Verbs: []string{"repeat", "rep"}, Args: "[off|context|track]", Summary: "cycle or set repeat"},
	{ID: Search, Verbs: []string{"search", "s", "find"}, Args: "<query>", Summary: "search for tracks"},
	{ID: Queue, Verbs: []string{"queue", "add"}, Args: "<N>", Summary: "queue track N of the list"},
	{ID: Playlists, Verbs: []string{"playlists", "pl", "lists"}, Summary: "list your playlists"},
	{ID: Open, Verbs: []string{"open"}, Args: "<N>", Summary: "show the tracks of playlist N and make it the target"},
	{ID: Create, Verbs: []string{"create"}, Args: "<name>", Summary: "create a private playlist"},
	{ID: Save, Verbs: []string{"save"}, Args: "<N>", Summary: "add track N to the target playlist"},
	{ID: Remove, Verbs: []string{"remove", "rm"}, Args: "<N>", Summary: "remove track N from the target playlist"},
	{ID: Show, Verbs: []string{"show", "now"}, Summary: "print the current track"},
	{ID: Help, Verbs: []string{"help", "h", "?"}, Summary: "show this help"},
	{ID: Quit, Verbs: []string{"quit", "exit", "q"}, Summary: "leave spotui"},
}

var (
	byVerb = map[string]ID{}
	byID   = map[ID]Spec{}
)

func init() {
	for _, spec := range registry {
		byID[spec.ID] = spec
		for _, verb := range spec.Verbs {
			if _, dup := byVerb[verb]; dup {
				panic("command: duplicate verb " + verb)
			}
			byVerb[verb] = spec.ID
		}
	}
}

func (id ID) String() string {
	if spec, ok := byID[id]; ok {
		return spec.Name()
	}
	return "unknown"
}

// Lookup returns the command selected by verb. verb must already be normalized.
func Lookup(verb string) (Spec, bool) {
	id, ok := byVerb[verb]
	if !ok {
		return Spec{}, false
	}
	return byID[id], true
}

// Specs returns the registry in help order
func Specs() []Spec {
	out := make([]Spec, len(registry))
	copy(out, registry)
	return out
}

// Input is a parsed submit
type Input struct {
	ID   ID
	Verb string
	Args string
}

// Normalize trims raw and splits it into a lowercase verb and its arguments.
// Arguments keep their case so search queries and playlist names survive.
func Normalize(raw string) (verb, args string) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexFunc(raw, isSpace); i >= 0 {
		verb, args = raw[:i], strings.TrimSpace(raw[i:])
	} else {
		verb = raw
	}
	return strings.ToLower(verb), args
}

// Parse normalizes raw and resolves its verb
func Parse(raw string) (Input, error) {
	verb, args := Normalize(raw)
	if verb == "" {
		return Input{}, ErrEmpty
	}
	spec, ok := Lookup(verb)
	if !ok {
		return Input{Verb: verb, Args: args}, fmt.Errorf("%w %q (try help)", ErrUnknownCommand, verb)
	}
	return Input{ID: spec.ID, Verb: verb, Args: args}, nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}
