package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/envgroom/envgroom/internal/types"
	"github.com/joho/godotenv"
)

/*
 * Snapshot file I/O.
 *
 * Snapshots enter and leave the engine only at this boundary. Two formats:
 *
 *   .env   parsed with godotenv; key order is recovered by scanning the
 *          raw lines, since godotenv hands back an unordered map
 *   .json  object of name -> value; JSON objects carry no order, so keys
 *          are sorted for a deterministic snapshot
 *
 * Values pass through byte-for-byte and are never printed anywhere in the
 * cmd layer. Every rendering path goes through apply.DescribeAction or
 * writeSnapshot.
 */

func loadSnapshot(path string) (*types.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return snapshotFromJSON(raw)
	}
	return snapshotFromEnv(raw)
}

func snapshotFromJSON(raw []byte) (*types.Snapshot, error) {
	var vars map[string]string
	if err := json.Unmarshal(raw, &vars); err != nil {
		return nil, fmt.Errorf("failed to parse JSON snapshot: %w", err)
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	snap := types.NewSnapshot()
	for _, name := range names {
		snap.Set(name, vars[name])
	}
	return snap, nil
}

func snapshotFromEnv(raw []byte) (*types.Snapshot, error) {
	vars, err := godotenv.UnmarshalBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse env snapshot: %w", err)
	}

	snap := types.NewSnapshot()
	for _, name := range envKeyOrder(raw) {
		if value, ok := vars[name]; ok {
			snap.Set(name, value)
		}
	}
	// Keys godotenv accepted but the line scan missed (multiline values,
	// exotic quoting) still land in the snapshot, after the ordered ones.
	remainder := make([]string, 0)
	for name := range vars {
		if !snap.Has(name) {
			remainder = append(remainder, name)
		}
	}
	sort.Strings(remainder)
	for _, name := range remainder {
		snap.Set(name, vars[name])
	}
	return snap, nil
}

// envKeyOrder scans raw .env lines for keys in file order. Parsing is left
// entirely to godotenv; this only recovers ordering.
func envKeyOrder(raw []byte) []string {
	var order []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(strings.NewReader(string(raw)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		order = append(order, key)
	}
	return order
}

func writeSnapshot(path string, snap *types.Snapshot) error {
	var out []byte
	if strings.EqualFold(filepath.Ext(path), ".json") {
		vars := make(map[string]string, snap.Len())
		for _, name := range snap.Names() {
			value, _ := snap.Get(name)
			vars[name] = value
		}
		encoded, err := json.MarshalIndent(vars, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON snapshot: %w", err)
		}
		out = append(encoded, '\n')
	} else {
		var b strings.Builder
		for _, name := range snap.Names() {
			value, _ := snap.Get(name)
			b.WriteString(name)
			b.WriteString("=")
			b.WriteString(quoteEnvValue(value))
			b.WriteString("\n")
		}
		out = []byte(b.String())
	}

	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return nil
}

// quoteEnvValue quotes only when the value would otherwise not survive a
// round trip through an .env parser.
func quoteEnvValue(value string) string {
	if value == "" {
		return `""`
	}
	if strings.ContainsAny(value, " \t\n\"'#\\$") {
		escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(value)
		return `"` + escaped + `"`
	}
	return value
}
