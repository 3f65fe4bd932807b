// Package calendar schedules events in the local agenda and exposes
// them as agent tools.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asplabs/maia/internal/store"
	"github.com/asplabs/maia/internal/tools"
)

const defaultDurationMinutes = 60

// Scheduler manages a user's agenda.
type Scheduler struct {
	store *store.Store
	now   func() time.Time
}

func NewScheduler(st *store.Store) *Scheduler {
	return &Scheduler{store: st, now: time.Now}
}

// Schedule creates an event and returns user-facing Portuguese text.
func (s *Scheduler) Schedule(userID, title, when, description string, durationMinutes int) string {
	start, err := s.parseWhen(when)
	if err != nil {
		return "Erro: Não consegui interpretar a data e hora fornecidas. Por favor, seja mais explícito (ex: 'amanhã 14:00' ou '2025-11-09 14:00')."
	}
	if durationMinutes <= 0 {
		durationMinutes = defaultDurationMinutes
	}
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	ev, err := s.store.CreateEvent(userID, title, description, start, end)
	if err != nil {
		return fmt.Sprintf("Erro inesperado ao agendar: %v", err)
	}
	return fmt.Sprintf("Sucesso: Evento '%s' criado para %s na sua agenda. ID do Evento: %s.",
		title, start.Format("02/01/2006 às 15:04"), ev.ID)
}

// Cancel removes an event by id.
func (s *Scheduler) Cancel(userID, eventID string) string {
	switch err := s.store.DeleteEvent(userID, eventID); {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Sprintf("Erro ao excluir: Evento com ID '%s' não encontrado.", eventID)
	case err != nil:
		return fmt.Sprintf("Erro inesperado ao excluir evento: %v", err)
	}
	return fmt.Sprintf("Sucesso: Evento com ID '%s' excluído da agenda.", eventID)
}

// List formats the next events, soonest first.
func (s *Scheduler) List(userID string, maxResults int) string {
	if maxResults <= 0 {
		maxResults = 10
	}
	events, err := s.store.UpcomingEvents(userID, maxResults)
	if err != nil {
		return fmt.Sprintf("Erro inesperado ao listar eventos: %v", err)
	}
	if len(events) == 0 {
		return "Nenhum evento futuro encontrado na sua agenda."
	}
	var b strings.Builder
	b.WriteString("\n--- EVENTOS AGENDADOS ---")
	for _, ev := range events {
		fmt.Fprintf(&b, "\nTítulo: %s\nData/Hora: %s\nID do Evento: %s\n---",
			ev.Title, ev.Start.Format("02/01 às 15:04"), ev.ID)
	}
	return b.String()
}

var weekdays = map[string]time.Weekday{
	"segunda": time.Monday,
	"terça":   time.Tuesday,
	"terca":   time.Tuesday,
	"quarta":  time.Wednesday,
	"quinta":  time.Thursday,
	"sexta":   time.Friday,
	"sábado":  time.Saturday,
	"sabado":  time.Saturday,
	"domingo": time.Sunday,
}

var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// parseWhen interprets absolute timestamps and the relative Portuguese
// phrasings the assistant is asked with: "amanhã 14:00", "hoje 9:00",
// "próxima sexta 10:30" and bare clock times meaning today.
func (s *Scheduler) parseWhen(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}

	now := s.now()
	lower := strings.ToLower(raw)
	day := now

	hour, minute, hasClock := findClock(lower)
	switch {
	case strings.Contains(lower, "amanhã") || strings.Contains(lower, "amanha"):
		day = now.AddDate(0, 0, 1)
	case strings.Contains(lower, "hoje"):
		// Already today.
	default:
		matched := false
		for name, wd := range weekdays {
			if strings.Contains(lower, name) {
				ahead := (int(wd) - int(now.Weekday()) + 7) % 7
				if ahead == 0 && (strings.Contains(lower, "próxima") || strings.Contains(lower, "próximo") ||
					strings.Contains(lower, "proxima") || strings.Contains(lower, "proximo")) {
					ahead = 7
				}
				day = now.AddDate(0, 0, ahead)
				matched = true
				break
			}
		}
		if !matched && !hasClock {
			return time.Time{}, fmt.Errorf("unrecognized datetime %q", raw)
		}
	}

	if !hasClock {
		return time.Time{}, fmt.Errorf("no clock time in %q", raw)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.Local), nil
}

// findClock extracts an HH:MM (or HHhMM / HHh) time from the phrase.
func findClock(lower string) (hour, minute int, ok bool) {
	for _, sep := range []string{":", "h"} {
		fields := strings.Fields(lower)
		for _, f := range fields {
			idx := strings.Index(f, sep)
			if idx <= 0 {
				continue
			}
			h, m := f[:idx], f[idx+len(sep):]
			var hv, mv int
			if _, err := fmt.Sscanf(h, "%d", &hv); err != nil || hv < 0 || hv > 23 {
				continue
			}
			if m != "" {
				if _, err := fmt.Sscanf(m, "%d", &mv); err != nil || mv < 0 || mv > 59 {
					continue
				}
			}
			return hv, mv, true
		}
	}
	return 0, 0, false
}

// ScheduleTool exposes Schedule as the agendar_evento function.
func (s *Scheduler) ScheduleTool() *tools.Tool {
	return &tools.Tool{
		Name: "agendar_evento",
		Description: "Cria um evento na agenda do usuário. Aceita datas absolutas " +
			"('2025-11-09 14:00') ou relativas ('amanhã 14:00', 'próxima sexta 10:30').",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"titulo":           map[string]any{"type": "string", "description": "O título do evento."},
				"data_hora_inicio": map[string]any{"type": "string", "description": "Data e hora de início."},
				"duracao_minutos":  map[string]any{"type": "integer", "description": "Duração em minutos. Padrão: 60."},
				"descricao":        map[string]any{"type": "string", "description": "Descrição opcional."},
			},
			"required": []string{"titulo", "data_hora_inicio"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			title := tools.StringArg(args, "titulo")
			when := tools.StringArg(args, "data_hora_inicio")
			if title == "" || when == "" {
				return "", &tools.ArgumentError{ToolName: "agendar_evento", Reason: "campos 'titulo' e 'data_hora_inicio' são obrigatórios"}
			}
			dur := tools.IntArg(args, "duracao_minutos", defaultDurationMinutes)
			desc := tools.StringArg(args, "descricao")
			return s.Schedule(tools.UserIDFromContext(ctx), title, when, desc, dur), nil
		},
	}
}

// CancelTool exposes Cancel as the excluir_evento function.
func (s *Scheduler) CancelTool() *tools.Tool {
	return &tools.Tool{
		Name:        "excluir_evento",
		Description: "Exclui um evento da agenda usando seu ID. Use listar_eventos para descobrir o ID.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"event_id": map[string]any{"type": "string", "description": "O ID do evento a excluir."},
			},
			"required": []string{"event_id"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			id := tools.StringArg(args, "event_id")
			if id == "" {
				return "", &tools.ArgumentError{ToolName: "excluir_evento", Reason: "campo 'event_id' ausente"}
			}
			return s.Cancel(tools.UserIDFromContext(ctx), id), nil
		},
	}
}

// ListTool exposes List as the listar_eventos function.
func (s *Scheduler) ListTool() *tools.Tool {
	return &tools.Tool{
		Name:        "listar_eventos",
		Description: "Lista os próximos eventos da agenda, do mais próximo ao mais distante.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"max_results": map[string]any{"type": "integer", "description": "Quantidade máxima de eventos. Padrão: 10."},
			},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return s.List(tools.UserIDFromContext(ctx), tools.IntArg(args, "max_results", 10)), nil
		},
	}
}
