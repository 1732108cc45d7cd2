package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/toolshelf/internal/domain"
	"github.com/MrSnakeDoc/toolshelf/internal/enrich"
	"github.com/MrSnakeDoc/toolshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolshelf/internal/logger"
	"github.com/MrSnakeDoc/toolshelf/internal/session"
)

var (
	errForbidden    = errors.New("not authenticated")
	errToolNotFound = errors.New("tool not found")
	errStore        = errors.New("store write failed")
)

// outcome is how a mutation result is shown: a flash on the page or a JSON
// status.
type outcome struct {
	status int
	level  string
	msg    string
}

// addTool runs the add flow shared by the form and the API.
func addTool(r *http.Request, d deps.Deps, sess *session.Session, text string) (domain.Tool, error) {
	if !d.Guard.Allow(sess) {
		return domain.Tool{}, errForbidden
	}

	tool, err := d.Enricher.Enrich(r.Context(), text)
	if err != nil {
		return domain.Tool{}, err
	}

	if err := d.Tools.Append(r.Context(), tool); err != nil {
		d.Logger.Error("failed to append tool", logger.String("id", tool.ID), logger.Error(err))
		return domain.Tool{}, errors.Join(errStore, err)
	}
	return tool, nil
}

func addOutcome(err error) outcome {
	switch {
	case err == nil:
		return outcome{http.StatusCreated, session.FlashSuccess, "Ferramenta adicionada com sucesso!"}
	case errors.Is(err, errForbidden):
		return outcome{http.StatusForbidden, session.FlashError, "Faça login para adicionar ferramentas."}
	case errors.Is(err, enrich.ErrEmptySubmission):
		return outcome{http.StatusBadRequest, session.FlashWarning, "Por favor, digite a descrição da ferramenta."}
	case errors.Is(err, enrich.ErrEnrichment):
		return outcome{http.StatusBadGateway, session.FlashError, "Não foi possível processar a ferramenta. Tente novamente."}
	default:
		return outcome{http.StatusInternalServerError, session.FlashError, "Não foi possível salvar a ferramenta."}
	}
}

// deleteTool runs the delete flow shared by the form and the API.
func deleteTool(r *http.Request, d deps.Deps, sess *session.Session, id string) error {
	if !d.Guard.Allow(sess) {
		return errForbidden
	}

	ok, err := d.Tools.Delete(r.Context(), id)
	if err != nil {
		d.Logger.Error("failed to delete tool", logger.String("id", id), logger.Error(err))
		return errors.Join(errStore, err)
	}
	if !ok {
		return errToolNotFound
	}

	d.Logger.Info("tool deleted", logger.String("id", id))
	return nil
}

func deleteOutcome(err error) outcome {
	switch {
	case err == nil:
		return outcome{http.StatusNoContent, session.FlashSuccess, "Ferramenta excluída!"}
	case errors.Is(err, errForbidden):
		return outcome{http.StatusForbidden, session.FlashError, "Faça login para excluir itens."}
	case errors.Is(err, errToolNotFound):
		return outcome{http.StatusNotFound, session.FlashWarning, "Ferramenta não encontrada."}
	default:
		return outcome{http.StatusInternalServerError, session.FlashError, "Não foi possível excluir a ferramenta."}
	}
}

// login runs the password check shared by the form and the API.
func login(r *http.Request, d deps.Deps, sess *session.Session, password string) bool {
	ok := d.Guard.Check(sess, password)
	d.Logger.Info("login attempt",
		logger.Bool("authenticated", ok),
		logger.String("remote_ip", r.RemoteAddr),
	)
	return ok
}

const (
	msgLoginOK     = "Autenticação bem-sucedida!"
	msgLoginFailed = "Senha incorreta. Você terá acesso somente de leitura."
	msgRateLimited = "Muitas tentativas. Aguarde um pouco e tente novamente."
)
