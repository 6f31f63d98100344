package dms

import "sort"

// Conflict is a key present on both sides with divergent non-key data.
// Resolution policy is fixed: storage wins, and the conflict is recorded.
type Conflict struct {
	Key         string `json:"key"`
	StorageLine string `json:"storage_line"`
	FileLine    string `json:"file_line"`
}

// Diff partitions two record sets keyed by natural key, each value being the
// record's serialized line.
type Diff struct {
	OnlyInStorage []string   `json:"only_in_storage,omitempty"`
	OnlyInFile    []string   `json:"only_in_file,omitempty"`
	Conflicting   []Conflict `json:"conflicting,omitempty"`
}

func (d Diff) Empty() bool {
	return len(d.OnlyInStorage) == 0 && len(d.OnlyInFile) == 0 && len(d.Conflicting) == 0
}

// diffSets compares storage against file content. Output slices are sorted
// for stable reports.
func diffSets(storage, file map[string]string) Diff {
	var d Diff
	for k, sline := range storage {
		fline, ok := file[k]
		if !ok {
			d.OnlyInStorage = append(d.OnlyInStorage, k)
			continue
		}
		if fline != sline {
			d.Conflicting = append(d.Conflicting, Conflict{Key: k, StorageLine: sline, FileLine: fline})
		}
	}
	for k := range file {
		if _, ok := storage[k]; !ok {
			d.OnlyInFile = append(d.OnlyInFile, k)
		}
	}
	sort.Strings(d.OnlyInStorage)
	sort.Strings(d.OnlyInFile)
	sort.Slice(d.Conflicting, func(i, j int) bool { return d.Conflicting[i].Key < d.Conflicting[j].Key })
	return d
}
