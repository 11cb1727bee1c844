package tfidf

import "strings"

// englishStopwords is the stop-word list applied to unigrams before n-gram
// formation. Bigrams are built from the surviving token sequence, so a bigram
// never contains a stop word.
var englishStopwords = buildStopwords(`
a about above after again against all am an and any are as at be because been
before being below between both but by can cannot could did do does doing down
during each few for from further had has have having he her here hers herself
him himself his how i if in into is it its itself just me more most my myself
no nor not now of off on once only or other our ours ourselves out over own
same she should so some such than that the their theirs them themselves then
there these they this those through to too under until up very was we were
what when where which while who whom why will with would you your yours
yourself yourselves
`)

func buildStopwords(words string) map[string]struct{} {
	m := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		m[w] = struct{}{}
	}
	return m
}

func isStopword(token string) bool {
	_, ok := englishStopwords[token]
	return ok
}
