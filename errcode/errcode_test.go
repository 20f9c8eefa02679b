package errcode

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/ProjectsTask/EasySwapMarket/market/errs"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		reason string
	}{
		{errs.ErrInvalidValueSent, http.StatusBadRequest, "InvalidValueSent"},
		{errs.ErrAlreadyExists.WithMessage("offer 1"), http.StatusConflict, "AlreadyExists"},
		{errs.ErrNotMaker, http.StatusForbidden, "NotMaker"},
		{errs.ErrPaused, http.StatusServiceUnavailable, "Paused"},
		{errors.Wrap(errs.ErrNftTransferFailed, "failed on nft transfer"), http.StatusBadGateway, "NftTransferFailed"},
		{errs.ErrInvariant, http.StatusInternalServerError, "InvariantViolated"},
	}
	for _, c := range cases {
		e := FromError(c.err)
		assert.Equal(t, c.status, e.HTTPCode, c.err.Error())
		assert.Equal(t, c.reason, e.Reason)
		assert.Equal(t, c.err.Error(), e.Msg)
	}

	assert.Nil(t, FromError(nil))
	assert.Same(t, ErrUnexpected, FromError(errors.New("boom")))
	assert.Same(t, ErrInvalidParams, FromError(errors.Wrap(ErrInvalidParams, "bind")))
}

func TestNewCustomErr(t *testing.T) {
	e := NewCustomErr("Filter param is nil.")
	assert.Equal(t, http.StatusBadRequest, e.HTTPCode)
	assert.Equal(t, "Filter param is nil.", e.Error())
}
