// Package agent implements the core agent loop: the protocol that turns
// a user utterance into zero or more tool invocations interleaved with
// model calls, converging to a final natural-language answer.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/asplabs/maia/internal/convo"
	"github.com/asplabs/maia/internal/llm"
	"github.com/asplabs/maia/internal/tools"
)

// Fixed user-visible texts. These are part of the protocol contract:
// every failure branch produces one of these instead of an error value.
const (
	msgFirstCallFailed  = "A comunicação com a IA falhou (resposta vazia). Verifique a chave de API."
	msgSecondCallFailed = "A comunicação de segunda etapa falhou."
	msgNoFunctionText   = "Ocorreu um erro ao processar a resposta da função."

	// proactivePrompt substitutes an empty utterance so the loop can
	// still advance; an empty turn is never sent to the model.
	proactivePrompt = "O usuário não disse nada. O histórico está vazio ou a última ação não sugere um próximo passo lógico. " +
		"Seja proativa e sugira o próximo passo mais eficiente com seu tom polido e superior, mencionando as ferramentas."
)

// Identity describes the user on whose behalf a turn runs.
type Identity struct {
	DisplayName string
}

// Loop drives the request/response/tool-dispatch cycle.
type Loop struct {
	client   llm.Client
	registry *tools.Registry
	logger   *slog.Logger
}

// New creates an agent loop.
func New(client llm.Client, registry *tools.Registry, logger *slog.Logger) *Loop {
	return &Loop{
		client:   client,
		registry: registry,
		logger:   logger,
	}
}

// RunTurn processes one conversational turn. It appends the user
// utterance to history, alternates model calls with tool dispatch until
// the model answers in text, and returns the grown history plus the
// final answer.
//
// RunTurn never fails past its boundary: every expected error becomes
// part of the conversation or the returned text, and an unexpected
// panic is converted into an apology while preserving the history
// accumulated so far. The caller is responsible for persisting the
// returned history.
func (l *Loop) RunTurn(ctx context.Context, history []convo.Turn, userPrompt string, identity *Identity) (updated []convo.Turn, finalText string) {
	updated = history

	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("agent turn panicked", "panic", r)
			finalText = fmt.Sprintf("Perdoe-me, encontrei uma anomalia na comunicação: %v", r)
		}
	}()

	instruction := Instruction(identity)

	if strings.TrimSpace(userPrompt) == "" {
		userPrompt = proactivePrompt
	}
	updated = append(updated, convo.NewUserText(userPrompt))

	resp, err := l.client.Generate(ctx, instruction, updated)
	if err != nil {
		l.logger.Error("model call failed", "error", err)
		return updated, fmt.Sprintf("Perdoe-me, encontrei uma anomalia na comunicação: %v", err)
	}
	if resp.Empty() {
		return updated, msgFirstCallFailed
	}

	// Only the first part of the first candidate is consulted each
	// round; additional parts are ignored by contract.
	part := resp.Candidates[0].Parts[0]
	updated = append(updated, resp.Candidates[0])

	for part.FunctionCall != nil {
		call := part.FunctionCall
		result := l.dispatch(ctx, call)
		updated = append(updated, convo.NewFunctionResponse(call.Name, result))

		resp, err = l.client.Generate(ctx, instruction, updated)
		if err != nil {
			l.logger.Error("model call failed", "error", err)
			return updated, fmt.Sprintf("Perdoe-me, encontrei uma anomalia na comunicação: %v", err)
		}
		if resp.Empty() {
			updated = append(updated, convo.NewModelText(msgSecondCallFailed))
			break
		}

		part = resp.Candidates[0].Parts[0]
		updated = append(updated, resp.Candidates[0])
	}

	if !part.IsText() {
		return updated, msgNoFunctionText
	}
	return updated, part.Text
}

// dispatch executes one tool call and always returns a textual result.
// The model must see some string output for every invocation it
// requested; no dispatch failure propagates as a fault.
func (l *Loop) dispatch(ctx context.Context, call *convo.FunctionCall) string {
	l.logger.Info("executando ferramenta", "tool", call.Name, "args", call.Args)

	result, err := l.registry.Execute(ctx, call.Name, call.Args)
	if err == nil {
		return result
	}

	var unavailable *tools.ErrToolUnavailable
	switch {
	case errors.As(err, &unavailable):
		return fmt.Sprintf("Erro: Função desconhecida '%s'.", call.Name)
	case tools.IsArgumentError(err):
		return fmt.Sprintf("Erro de Argumento: A IA tentou chamar %s com argumentos inválidos. %v", call.Name, err)
	default:
		return fmt.Sprintf("Erro inesperado na execução da ferramenta: %v", err)
	}
}
