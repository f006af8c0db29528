// Package config parses the KDL-like hierarchical configuration file
// format named in spec.md §6/§6a: a small recursive-descent reader with a
// "never crash, never hang" robustness contract — malformed input degrades
// to defaults for whatever failed to parse, per spec.md §7's ConfigError
// policy, rather than aborting the whole file.
package config

import (
	"strconv"
	"strings"
)

// Hard caps per SPEC_FULL.md §6a: pathological input produces defaults,
// never a crash or unbounded allocation.
const (
	maxFileBytes = 64 * 1024
	maxLines     = 4096
	maxLineBytes = 256
	maxDepth     = 64
)

// Value is a parsed node argument: a quoted/bare string, a number, or a
// boolean literal.
type Value struct {
	Str      string
	Num      float64
	Bool     bool
	IsNum    bool
	IsBool   bool
}

func stringValue(s string) Value { return Value{Str: s} }

// Node is one line of the hierarchy: a name, its positional arguments, and
// any brace-delimited children.
type Node struct {
	Name     string
	Args     []Value
	Children []Node
}

func (n Node) arg(i int) (Value, bool) {
	if i < 0 || i >= len(n.Args) {
		return Value{}, false
	}
	return n.Args[i], true
}

func (n Node) child(name string) (Node, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}
	return Node{}, false
}

// Console identifies the emulated hardware variant.
type Console string

const (
	ConsoleNTSCFrontLoader Console = "NES-NTSC-FrontLoader"
	ConsolePAL             Console = "NES-PAL"
)

// CPUConfig mirrors spec.md §6's `cpu { variant; region }` section.
type CPUConfig struct {
	Variant string // "RP2A03E" | "RP2A03G" | "RP2A03H" | "RP2A07"
	Region  string // "NTSC" | "PAL"
}

// PPUConfig mirrors spec.md §6's `ppu { variant; region; accuracy }`.
type PPUConfig struct {
	Variant  string // "RP2C02G" | "RP2C07"
	Region   string
	Accuracy string // "frame" | "scanline" | "cycle"
}

// CICConfig mirrors spec.md §6's `cic { variant; enabled }`.
type CICConfig struct {
	Variant string
	Enabled bool
}

// ControllersConfig mirrors spec.md §6's `controllers { type }`.
type ControllersConfig struct {
	Type string
}

// VideoConfig mirrors spec.md §6's `video { backend; vsync; scale }`.
type VideoConfig struct {
	Backend string // "vulkan" | "software"
	VSync   bool
	Scale   uint8
}

// Config is the fully typed, defaulted configuration tree.
type Config struct {
	Console     Console
	CPU         CPUConfig
	PPU         PPUConfig
	CIC         CICConfig
	Controllers ControllersConfig
	Video       VideoConfig
}

// Default returns the configuration used when no file is present or the
// file fails to parse at all.
func Default() Config {
	return Config{
		Console: ConsoleNTSCFrontLoader,
		CPU:     CPUConfig{Variant: "RP2A03G", Region: "NTSC"},
		PPU:     PPUConfig{Variant: "RP2C02G", Region: "NTSC", Accuracy: "scanline"},
		CIC:     CICConfig{Variant: "6113", Enabled: true},
		Controllers: ControllersConfig{Type: "NES"},
		Video: VideoConfig{Backend: "software", VSync: true, Scale: 3},
	}
}

// Parse reads a KDL-like configuration file and returns a fully defaulted
// Config. It never returns an error: any malformed section is dropped and
// its defaults are kept, per the ConfigError "silently ignored, defaults
// used" policy. Input larger than maxFileBytes is treated as if no file were
// present at all; the line-count and line-length caps are enforced by
// clampLines, which drops or truncates lines and parses the rest.
func Parse(data []byte) Config {
	cfg := Default()
	if len(data) > maxFileBytes {
		return cfg
	}

	nodes := parseNodes(clampLines(data))
	applyNodes(&cfg, nodes)
	return cfg
}

// clampLines enforces the line-count and per-line-length caps by dropping
// lines beyond the cap and truncating overlong ones, rather than refusing
// to parse at all.
func clampLines(data []byte) []string {
	rawLines := strings.Split(string(data), "\n")
	if len(rawLines) > maxLines {
		rawLines = rawLines[:maxLines]
	}
	lines := make([]string, len(rawLines))
	for i, l := range rawLines {
		if len(l) > maxLineBytes {
			l = l[:maxLineBytes]
		}
		lines[i] = l
	}
	return lines
}

// parseNodes runs a brace-counting recursive descent over the clamped
// lines. Each node occupies one line for its name+args, optionally opening
// a `{` that is closed by a lone `}` line; a node whose brace never closes,
// or whose nesting exceeds maxDepth, is truncated at that point and its
// already-parsed siblings/children are kept.
func parseNodes(lines []string) []Node {
	p := &parser{lines: lines}
	return p.parseBlock(0)
}

type parser struct {
	lines []string
	pos   int
}

func (p *parser) parseBlock(depth int) []Node {
	var nodes []Node
	for p.pos < len(p.lines) {
		line := strings.TrimSpace(p.lines[p.pos])
		if line == "" || strings.HasPrefix(line, "//") {
			p.pos++
			continue
		}
		if line == "}" {
			p.pos++
			return nodes
		}

		opensBlock := strings.HasSuffix(line, "{")
		head := line
		if opensBlock {
			head = strings.TrimSpace(strings.TrimSuffix(line, "{"))
		}
		p.pos++

		name, args, ok := tokenizeHead(head)
		if !ok {
			// Malformed head: skip this line, keep parsing siblings. If it
			// opened a block we still need to consume (and discard) that
			// block so a later sibling doesn't get swallowed as children.
			if opensBlock {
				p.skipBlock()
			}
			continue
		}

		node := Node{Name: name, Args: args}
		if opensBlock {
			if depth >= maxDepth {
				p.skipBlock()
			} else {
				node.Children = p.parseBlock(depth + 1)
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// skipBlock consumes lines until a matching closing brace (tracking
// nested opens) without building any Node tree, used to recover from a
// malformed node that still opened a block.
func (p *parser) skipBlock() {
	depth := 1
	for p.pos < len(p.lines) && depth > 0 {
		line := strings.TrimSpace(p.lines[p.pos])
		p.pos++
		if strings.HasSuffix(line, "{") {
			depth++
		}
		if line == "}" {
			depth--
		}
	}
}

// tokenizeHead splits a node's head ("name arg1 \"arg 2\" true") into a
// name and its argument values. Returns ok=false for a head with no name
// at all (e.g. a line that was only "{").
func tokenizeHead(head string) (name string, args []Value, ok bool) {
	fields := splitHeadFields(head)
	if len(fields) == 0 {
		return "", nil, false
	}
	name = fields[0]
	for _, f := range fields[1:] {
		args = append(args, parseValue(f))
	}
	return name, args, true
}

// splitHeadFields splits on whitespace but keeps double-quoted substrings
// intact, tolerating an unterminated trailing quote by treating the rest
// of the line as the quoted value.
func splitHeadFields(s string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ' ' || r == '\t':
			if inQuotes {
				cur.WriteRune(r)
			} else {
				flush()
			}
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return fields
}

func parseValue(tok string) Value {
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		return stringValue(tok[1 : len(tok)-1])
	}
	switch tok {
	case "true":
		return Value{Bool: true, IsBool: true}
	case "false":
		return Value{Bool: false, IsBool: true}
	}
	if n, err := strconv.ParseFloat(tok, 64); err == nil {
		return Value{Num: n, IsNum: true}
	}
	return stringValue(tok)
}

// applyNodes extracts the recognized top-level sections into cfg,
// overwriting only the fields a matching, well-formed node supplies.
// Unknown node names and unknown keys within a section are ignored rather
// than rejected, per spec.md §6's "unknown keys ... must not crash" rule.
func applyNodes(cfg *Config, nodes []Node) {
	for _, n := range nodes {
		switch n.Name {
		case "console":
			if v, ok := n.arg(0); ok {
				cfg.Console = Console(v.Str)
			}
		case "cpu":
			if v, ok := stringChild(n, "variant"); ok {
				cfg.CPU.Variant = v
			}
			if v, ok := stringChild(n, "region"); ok {
				cfg.CPU.Region = v
			}
		case "ppu":
			if v, ok := stringChild(n, "variant"); ok {
				cfg.PPU.Variant = v
			}
			if v, ok := stringChild(n, "region"); ok {
				cfg.PPU.Region = v
			}
			if v, ok := stringChild(n, "accuracy"); ok {
				cfg.PPU.Accuracy = v
			}
		case "cic":
			if v, ok := stringChild(n, "variant"); ok {
				cfg.CIC.Variant = v
			}
			if v, ok := boolChild(n, "enabled"); ok {
				cfg.CIC.Enabled = v
			}
		case "controllers":
			if v, ok := stringChild(n, "type"); ok {
				cfg.Controllers.Type = v
			}
		case "video":
			if v, ok := stringChild(n, "backend"); ok {
				cfg.Video.Backend = v
			}
			if v, ok := boolChild(n, "vsync"); ok {
				cfg.Video.VSync = v
			}
			if v, ok := numChild(n, "scale"); ok && v >= 0 && v <= 255 {
				cfg.Video.Scale = uint8(v)
			}
		}
	}
}

// stringChild/boolChild/numChild read a `key value` or `key "value"` child
// node's first argument, a layout the grammar allows as a shorthand for
// `key { value }`. Any arity or type mismatch is treated as absent, not an
// error.
func stringChild(n Node, key string) (string, bool) {
	c, ok := n.child(key)
	if !ok {
		return "", false
	}
	v, ok := c.arg(0)
	if !ok {
		return "", false
	}
	return v.Str, true
}

func boolChild(n Node, key string) (bool, bool) {
	c, ok := n.child(key)
	if !ok {
		return false, false
	}
	v, ok := c.arg(0)
	if !ok || !v.IsBool {
		return false, false
	}
	return v.Bool, true
}

func numChild(n Node, key string) (float64, bool) {
	c, ok := n.child(key)
	if !ok {
		return 0, false
	}
	v, ok := c.arg(0)
	if !ok || !v.IsNum {
		return 0, false
	}
	return v.Num, true
}
