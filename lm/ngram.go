package lm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/decgo/model"
)

// BOS is the begin-of-sentence marker used by n-gram models.
const BOS model.Word = "<s>"

// unknownLogProb is the floor applied to words without any matching
// n-gram entry.
const unknownLogProb = -100.0

// NGram is an in-memory backoff n-gram language model.
type NGram struct {
	order    int
	probs    map[string]float64
	backoffs map[string]float64
}

// NewNGram creates an empty n-gram model of the given order.
func NewNGram(order int) *NGram {
	if order < 1 {
		order = 1
	}
	return &NGram{
		order:    order,
		probs:    make(map[string]float64),
		backoffs: make(map[string]float64),
	}
}

// Add inserts an n-gram with its log10 probability and backoff weight.
func (m *NGram) Add(ngram []model.Word, logProb, backoff float64) {
	key := joinKey(ngram)
	m.probs[key] = logProb
	if backoff != 0 {
		m.backoffs[key] = backoff
	}
}

// Order implements Model.
func (m *NGram) Order() int { return m.order }

// Start implements Model.
func (m *NGram) Start() State {
	if m.order > 1 {
		if _, ok := m.probs[string(BOS)]; ok {
			return State{words: []model.Word{BOS}}
		}
	}
	return State{}
}

// Transition implements Model. Each target word is scored against the
// rolling context with standard backoff: if the full n-gram is absent,
// the context's backoff weight is added and the shortened n-gram is
// tried, down to the unigram.
func (m *NGram) Transition(st State, target model.Phrase) (float64, State) {
	var delta float64
	context := append([]model.Word(nil), st.words...)
	for _, w := range target {
		delta += m.scoreWord(context, w)
		context = append(context, w)
		if keep := m.order - 1; len(context) > keep {
			context = context[len(context)-keep:]
		}
	}
	return delta, advance(st, target, m.order)
}

func (m *NGram) scoreWord(context []model.Word, w model.Word) float64 {
	var penalty float64
	for lo := 0; lo <= len(context); lo++ {
		key := joinKey(append(append([]model.Word{}, context[lo:]...), w))
		if p, ok := m.probs[key]; ok {
			return penalty + p
		}
		if b, ok := m.backoffs[joinKey(context[lo:])]; ok {
			penalty += b
		}
	}
	return penalty + unknownLogProb
}

func joinKey(words []model.Word) string {
	var sb strings.Builder
	for i, w := range words {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(string(w))
	}
	return sb.String()
}

// LoadARPA reads a model in the ARPA text format. Only the \data\ and
// \N-grams: sections are interpreted; the order is taken from the
// highest \N-grams: section header, whether or not it has entries.
func LoadARPA(r io.Reader) (*NGram, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	m := NewNGram(1)
	section := 0
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line == `\data\` || strings.HasPrefix(line, "ngram ") {
			continue
		}
		if line == `\end\` {
			break
		}
		if strings.HasPrefix(line, `\`) && strings.HasSuffix(line, "-grams:") {
			n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(line, `\`), "-grams:"))
			if err != nil {
				return nil, fmt.Errorf("lm: malformed section header at line %d: %q", lineNo, line)
			}
			section = n
			if n > m.order {
				m.order = n
			}
			continue
		}
		if section == 0 {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < section+1 {
			return nil, fmt.Errorf("lm: short %d-gram at line %d: %q", section, lineNo, line)
		}
		logProb, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("lm: bad probability at line %d: %w", lineNo, err)
		}
		words := make([]model.Word, section)
		for i := 0; i < section; i++ {
			words[i] = model.Word(fields[1+i])
		}
		backoff := 0.0
		if len(fields) > section+1 {
			backoff, err = strconv.ParseFloat(fields[section+1], 64)
			if err != nil {
				return nil, fmt.Errorf("lm: bad backoff at line %d: %w", lineNo, err)
			}
		}
		m.Add(words, logProb, backoff)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}
