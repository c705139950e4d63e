package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateMathChallenge returns a simple addition question and its answer,
// used as the registration captcha
func GenerateMathChallenge() (string, string) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	a := rng.Intn(9) + 1
	b := rng.Intn(9) + 1
	question := fmt.Sprintf("%d + %d", a, b)
	answer := fmt.Sprintf("%d", a+b)
	return question, answer
}
