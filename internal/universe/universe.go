package universe

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Load reads the ticker list for one market group from <dir>/<group>.txt,
// one symbol per line, skipping blank lines. A missing file is an empty
// group, not an error.
func Load(dir, group string) ([]string, error) {
	path := filepath.Join(dir, group+".txt")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ticker list %s: %w", path, err)
	}
	defer f.Close()

	var tickers []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			tickers = append(tickers, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ticker list %s: %w", path, err)
	}
	return tickers, nil
}

// Groups returns the available market group names in dir, sorted.
func Groups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ticker dir %s: %w", dir, err)
	}
	var groups []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		groups = append(groups, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(groups)
	return groups, nil
}
