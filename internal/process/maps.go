package process

import (
	"bufio"
	"io"
	"iter"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wnxd/psxhook/process"
)

type mapsEntry struct {
	process.MemRegion
	Path string
}

func parseMapsLine(line string) (mapsEntry, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return mapsEntry{}, false
	}
	begin, end, ok := strings.Cut(fields[0], "-")
	if !ok {
		return mapsEntry{}, false
	}
	start, err := strconv.ParseUint(begin, 16, 64)
	if err != nil {
		return mapsEntry{}, false
	}
	stop, err := strconv.ParseUint(end, 16, 64)
	if err != nil || stop < start {
		return mapsEntry{}, false
	}
	var prot process.MemProt
	perms := fields[1]
	if len(perms) > 0 && perms[0] == 'r' {
		prot |= process.MEM_PROT_READ
	}
	if len(perms) > 1 && perms[1] == 'w' {
		prot |= process.MEM_PROT_WRITE
	}
	if len(perms) > 2 && perms[2] == 'x' {
		prot |= process.MEM_PROT_EXEC
	}
	entry := mapsEntry{MemRegion: process.MemRegion{Addr: start, Size: stop - start, Prot: prot}}
	if len(fields) >= 6 {
		entry.Path = strings.Join(fields[5:], " ")
	}
	return entry, true
}

func parseMaps(r io.Reader) iter.Seq[mapsEntry] {
	return func(yield func(mapsEntry) bool) {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			entry, ok := parseMapsLine(scanner.Text())
			if !ok {
				continue
			}
			if !yield(entry) {
				return
			}
		}
	}
}

func modulesFromMaps(entries iter.Seq[mapsEntry]) map[string]process.Module {
	mods := make(map[string]process.Module)
	for e := range entries {
		if e.Path == "" || strings.HasPrefix(e.Path, "[") {
			continue
		}
		name := filepath.Base(strings.ReplaceAll(e.Path, "\\", "/"))
		key := strings.ToLower(name)
		m, ok := mods[key]
		if !ok {
			mods[key] = process.Module{Name: name, Base: e.Addr, Size: e.Size}
			continue
		}
		end := max(m.Base+m.Size, e.End())
		m.Base = min(m.Base, e.Addr)
		m.Size = end - m.Base
		mods[key] = m
	}
	return mods
}
