// Copyright (c) 2015, Arbo von Monkiewitsch All rights reserved.
// Use of this source code is governed by a BSD-style
// license.

// Package levenshtein calculates edit distances and picks the closest
// spelling among known names.
package levenshtein

// Context is the object which allows to calculate the Levenshtein distance
// with Distance() method. It reuses one buffer across calls.
type Context struct {
	intSlice []int
}

func (ctx *Context) getIntSlice(length int) []int {
	if cap(ctx.intSlice) < length {
		ctx.intSlice = make([]int, length)
	}

	return ctx.intSlice[:length]
}

// Distance returns the minimum number of single-rune insertions, deletions
// or substitutions turning str1 into str2. It uses O(min(m,n)) space.
func (ctx *Context) Distance(str1, str2 string) int {
	s1 := []rune(str1)
	s2 := []rune(str2)

	if len(s1) > len(s2) {
		s1, s2 = s2, s1
	}

	lenS1 := len(s1)
	if lenS1 == 0 {
		return len(s2)
	}

	column := ctx.getIntSlice(lenS1 + 1)
	for idx := range column {
		column[idx] = idx
	}

	for col, s2Rune := range s2 {
		column[0] = col + 1
		lastdiag := col

		for row := range lenS1 {
			olddiag := column[row+1]

			cost := 0
			if s1[row] != s2Rune {
				cost = 1
			}

			column[row+1] = min(
				column[row+1]+1,
				column[row]+1,
				lastdiag+cost,
			)
			lastdiag = olddiag
		}
	}

	return column[lenS1]
}

// Closest returns the candidate nearest to name, provided it is within a
// third of name's length (at least one edit). Ties keep the earlier candidate.
func (ctx *Context) Closest(name string, candidates []string) (string, bool) {
	limit := max(len([]rune(name))/3, 1)

	best := ""
	bestDistance := limit + 1

	for _, candidate := range candidates {
		if candidate == name {
			continue
		}

		distance := ctx.Distance(name, candidate)
		if distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}

	return best, best != ""
}
