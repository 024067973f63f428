// Package translit expands Arabic given names into their common Latin
// spellings so cross-script name comparisons become discoverable.
package translit

import "strings"

type entry struct {
	key      string
	variants []string
}

// The lookup table keys are written in their folded form (alef variants
// collapsed, ta-marbuta as heh) because expansion always runs on
// normalized names.
var table = []entry{
	{"محمد", []string{"mohammed", "muhammad", "mohamed", "mohammad"}},
	{"احمد", []string{"ahmed", "ahmad"}},
	{"علي", []string{"ali", "aly"}},
	{"عمر", []string{"omar", "umar"}},
	{"خالد", []string{"khaled", "khalid"}},
	{"حسن", []string{"hassan", "hasan"}},
	{"حسين", []string{"hussein", "hussain", "husain"}},
	{"يوسف", []string{"yousef", "youssef", "yusuf"}},
	{"ابراهيم", []string{"ibrahim", "ebrahim"}},
	{"عبدالله", []string{"abdullah", "abdallah"}},
	{"فاطمه", []string{"fatima", "fatma"}},
	{"سعيد", []string{"saeed", "said"}},
	{"سالم", []string{"salem", "salim"}},
	{"محمود", []string{"mahmoud", "mahmud"}},
	{"ناصر", []string{"nasser", "naser"}},
}

// Expand returns the set of plausible spellings for a normalized name: the
// name itself plus, for every table key found in it, the name with that key
// replaced by each of the key's Latin variants. When no key occurs the
// result is just {name}. Order is deterministic.
func Expand(name string) []string {
	out := []string{name}
	seen := map[string]bool{name: true}

	for _, e := range table {
		if !strings.Contains(name, e.key) {
			continue
		}
		for _, v := range e.variants {
			expanded := strings.ReplaceAll(name, e.key, v)
			if !seen[expanded] {
				seen[expanded] = true
				out = append(out, expanded)
			}
		}
	}

	return out
}
