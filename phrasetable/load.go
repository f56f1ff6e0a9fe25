package phrasetable

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/decgo/feature"
	"github.com/hupe1980/decgo/model"
)

const fieldSep = "|||"

// Load reads a phrase table in the "src ||| tgt ||| s1 s2 ..." text
// format. Scores are read as given; tables shipping probabilities
// should be converted to log space beforehand.
func Load(r io.Reader) (*Table, error) {
	t := New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, fieldSep)
		if len(fields) < 3 {
			return nil, fmt.Errorf("phrasetable: malformed line %d: %q", lineNo, line)
		}

		source := toWords(fields[0])
		target := toWords(fields[1])
		if len(source) == 0 {
			return nil, fmt.Errorf("phrasetable: empty source phrase at line %d", lineNo)
		}

		scoreFields := strings.Fields(strings.TrimSpace(fields[2]))
		features := make(feature.Vector, 0, len(scoreFields))
		for _, f := range scoreFields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("phrasetable: bad score at line %d: %w", lineNo, err)
			}
			features = append(features, v)
		}

		t.Add(model.Phrase(source), model.Phrase(target), features)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

func toWords(field string) []model.Word {
	fields := strings.Fields(strings.TrimSpace(field))
	words := make([]model.Word, 0, len(fields))
	for _, f := range fields {
		words = append(words, model.Word(f))
	}
	return words
}
