package model

import "github.com/festy23/league_engine/internal/apperror"

// ErrLeagueNotFound indicates that the requested league does not exist.
var ErrLeagueNotFound = apperror.New(apperror.KindNotFound, "league not found")
