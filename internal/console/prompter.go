package console

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	affirmativeShortAnswerConstant = "y"
	affirmativeLongAnswerConstant  = "yes"
	promptSuffixConstant           = " "
	lineTerminatorConstant         = '\n'
	echoedLineTemplateSuffix       = "\n"
	inputExhaustedMessageConstant  = "no input available for prompt"
)

// ErrInputExhausted indicates the input stream ended before a free-text answer was read.
var ErrInputExhausted = errors.New(inputExhaustedMessageConstant)

// IOPrompter reads confirmations and free-text answers from an io.Reader.
type IOPrompter struct {
	reader     *bufio.Reader
	writer     io.Writer
	echoAnswer bool
}

// NewIOPrompter constructs a prompter from the provided reader and writer.
// Answers piped from a non-terminal input are echoed so transcripts show what was read.
func NewIOPrompter(input io.Reader, output io.Writer) *IOPrompter {
	return &IOPrompter{
		reader:     bufio.NewReader(input),
		writer:     output,
		echoAnswer: !isInteractiveInput(input),
	}
}

// Confirm writes the prompt and interprets affirmative responses (y/yes).
func (prompter *IOPrompter) Confirm(prompt string) (bool, error) {
	response, readError := prompter.prompt(prompt)
	if readError != nil && !errors.Is(readError, io.EOF) {
		return false, readError
	}

	switch strings.ToLower(response) {
	case affirmativeShortAnswerConstant, affirmativeLongAnswerConstant:
		return true, nil
	default:
		return false, nil
	}
}

// ReadLine writes the prompt and returns the trimmed answer.
func (prompter *IOPrompter) ReadLine(prompt string) (string, error) {
	response, readError := prompter.prompt(prompt)
	if readError != nil {
		if errors.Is(readError, io.EOF) && len(response) > 0 {
			return response, nil
		}
		if errors.Is(readError, io.EOF) {
			return "", ErrInputExhausted
		}
		return "", readError
	}
	return response, nil
}

func (prompter *IOPrompter) prompt(prompt string) (string, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, prompt+promptSuffixConstant); writeError != nil {
			return "", writeError
		}
	}

	response, readError := prompter.reader.ReadString(lineTerminatorConstant)
	trimmedResponse := strings.TrimSpace(response)

	if prompter.echoAnswer && prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, trimmedResponse+echoedLineTemplateSuffix); writeError != nil {
			return "", writeError
		}
	}
	return trimmedResponse, readError
}

func isInteractiveInput(input io.Reader) bool {
	inputFile, isFile := input.(*os.File)
	if !isFile || inputFile == nil {
		return false
	}
	return term.IsTerminal(int(inputFile.Fd()))
}
