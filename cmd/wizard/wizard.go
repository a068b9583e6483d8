package main

import (
	"errors"

	"go.uber.org/zap"

	"github.com/resumeio/resume"
)

// errAborted is delivered into the questionnaire when the user bails out.
var errAborted = errors.New("wizard aborted")

// Prompter is a callback-driven question API. Ask returns without waiting
// for the user; reply is invoked later, usually on another goroutine, with
// the answer or an error.
type Prompter interface {
	Ask(q Question, reply func(answer string, err error))
	Close()
}

// askQuestions walks the questionnaire as linear code on a coroutine. Each
// question registers a callback that resumes the computation with the
// answer, so despite the callback API underneath, the flow reads straight
// down and an abort surfaces as a plain error return.
func askQuestions(p Prompter, cfg *Config, log *zap.Logger) (map[string]string, error) {
	answers := make(map[string]string, len(cfg.Questions))
	done := make(chan error, 1)

	_, _, err := resume.StartValue(func(this resume.Weak[string, Question], yield resume.Yield[string, Question]) (Question, error) {
		var walkErr error
		defer func() { done <- walkErr }()

		self := this.WithStrongRef()
		for _, q := range cfg.Questions {
			p.Ask(q, func(answer string, err error) {
				if err != nil {
					_, _ = self.ThrowWait(err, resume.Forever)
					return
				}
				_, _ = self.SendWait(answer, resume.Forever)
			})

			answer, err := yield(q)
			if err != nil {
				walkErr = err
				return Question{}, err
			}
			if answer == "" {
				answer = q.Default
			}
			answers[q.Key] = answer
			log.Debug("answer recorded",
				zap.String("key", q.Key), zap.Int("length", len(answer)))
		}
		return Question{}, nil
	}, resume.WithLogger(log))
	if err != nil {
		return nil, err
	}

	if err := <-done; err != nil {
		return nil, err
	}
	return answers, nil
}
