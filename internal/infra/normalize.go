package infra

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/schollz/closestmatch"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
	whitespaceRegex      = regexp.MustCompile(`\s+`)
)

// Normalizar folds accents and case and collapses punctuation, so
// "Ruleta  Électrónica-2" and "RULETA ELECTRONICA 2" compare equal.
func Normalizar(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	result = strings.ToUpper(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// Buscador resolves spreadsheet names against a set of normalised keys,
// exactly first and then by closest match.
type Buscador struct {
	claves map[string]int64
	cm     *closestmatch.ClosestMatch
}

// NuevoBuscador indexes key → id. Keys are normalised here.
func NuevoBuscador(claves map[string]int64) *Buscador {
	b := &Buscador{claves: make(map[string]int64, len(claves))}
	lista := make([]string, 0, len(claves))
	for k, id := range claves {
		n := Normalizar(k)
		if n == "" {
			continue
		}
		if _, dup := b.claves[n]; !dup {
			lista = append(lista, n)
		}
		b.claves[n] = id
	}
	if len(lista) > 0 {
		b.cm = closestmatch.New(lista, []int{2, 3, 4})
	}
	return b
}

func (b *Buscador) Exacto(nombre string) (int64, bool) {
	id, ok := b.claves[Normalizar(nombre)]
	return id, ok
}

// Parecido returns the id of the closest key, if any shares a fragment with
// nombre.
func (b *Buscador) Parecido(nombre string) (int64, bool) {
	if b.cm == nil {
		return 0, false
	}
	n := Normalizar(nombre)
	if n == "" {
		return 0, false
	}
	match := b.cm.Closest(n)
	if match == "" {
		return 0, false
	}
	id, ok := b.claves[match]
	return id, ok
}
