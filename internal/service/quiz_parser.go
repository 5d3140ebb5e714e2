package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"skill_extractor_backend/internal/model"
	"skill_extractor_backend/internal/util"
)

// ParseQuiz turns the collaborator's text into a Quiz. A response without
// a "questions" array is a valid, empty quiz; a present array with an
// entry that is not a question object is a ParseFailure.
func ParseQuiz(raw string, skillID uint, skillName string) (*model.Quiz, error) {
	root, err := decodeJSON(raw)
	if err != nil {
		return nil, util.ParseError(err, "Failed to parse quiz response")
	}

	quiz := &model.Quiz{
		SkillID:   skillID,
		SkillName: skillName,
		Questions: []model.Question{},
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return quiz, nil
	}
	nodes, ok := obj["questions"].([]any)
	if !ok {
		return quiz, nil
	}

	for i, node := range nodes {
		q, err := parseQuestion(node)
		if err != nil {
			return nil, util.ParseError(err, "Failed to parse quiz response: question %d", i+1)
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz, nil
}

func parseQuestion(node any) (model.Question, error) {
	fields, ok := node.(map[string]any)
	if !ok {
		return model.Question{}, fmt.Errorf("question is %T, not an object", node)
	}

	number, ok := fields["number"]
	if !ok {
		return model.Question{}, fmt.Errorf("missing number")
	}
	text, ok := fields["text"]
	if !ok {
		return model.Question{}, fmt.Errorf("missing text")
	}
	answer, ok := fields["correctAnswer"]
	if !ok {
		return model.Question{}, fmt.Errorf("missing correctAnswer")
	}

	options := []string{}
	if list, ok := fields["options"].([]any); ok {
		for _, o := range list {
			options = append(options, asText(o))
		}
	}

	return model.Question{
		Number:        asInt(number),
		Text:          asText(text),
		Options:       options,
		CorrectAnswer: asText(answer),
	}, nil
}

// decodeJSON accepts a bare JSON document, optionally wrapped in a
// markdown code fence.
func decodeJSON(raw string) (any, error) {
	body := stripCodeFence(raw)
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func asText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "null"
	default:
		return ""
	}
}

func asInt(v any) int {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		if f, err := t.Float64(); err == nil {
			return int(f)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	case bool:
		if t {
			return 1
		}
	}
	return 0
}
