package amqp

import (
	"context"
	"errors"
	"testing"

	"painel/internal/core"
	"painel/internal/dashboard"
	"painel/internal/sheets"
	"painel/internal/sheets/memory"
)

func TestRefreshHandler(t *testing.T) {
	contracts := memory.New("Serviço ou Produto\nLimpeza\nPortaria\n")
	billing := memory.New("<html>")
	board := dashboard.NewBoard(map[core.Page]sheets.TableReader{
		core.Contracts: contracts,
		core.Billing:   billing,
	}, dashboard.Options{})
	handler := RefreshHandler(board, nil)

	t.Run("refreshes the requested page", func(t *testing.T) {
		if err := handler(context.Background(), &RefreshRequest{Page: "Contratos"}); err != nil {
			t.Fatalf("handler() error = %v", err)
		}
		if contracts.Fetches() != 1 {
			t.Errorf("Fetches() = %d, want 1", contracts.Fetches())
		}
		d, _ := board.Get("contratos")
		if got := d.Status().Records; got != 2 {
			t.Errorf("Records = %d, want 2", got)
		}
	})

	t.Run("data failure is acknowledged", func(t *testing.T) {
		if err := handler(context.Background(), &RefreshRequest{Page: "faturamento"}); err != nil {
			t.Fatalf("handler() error = %v, want nil", err)
		}
		d, _ := board.Get("faturamento")
		if d.Status().ErrorKind != core.KindFormat {
			t.Errorf("ErrorKind = %q, want %q", d.Status().ErrorKind, core.KindFormat)
		}
	})

	t.Run("unknown page is rejected", func(t *testing.T) {
		err := handler(context.Background(), &RefreshRequest{Page: "estoque"})
		if !errors.Is(err, ErrRejected) {
			t.Errorf("handler() error = %v, want ErrRejected", err)
		}
		if !errors.Is(err, dashboard.ErrUnknownPage) {
			t.Errorf("handler() error = %v, want ErrUnknownPage", err)
		}
	})
}
