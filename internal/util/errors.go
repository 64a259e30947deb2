package util

import "errors"

var (
	ErrSessionNotFound      = errors.New("session non trouvée")
	ErrQuestionNotFound     = errors.New("question non trouvée")
	ErrAlreadyAnswered      = errors.New("question déjà répondue")
	ErrConfidenceRequired   = errors.New("session_id and confidence are required")
	ErrParseFailure         = errors.New("réponse générée non exploitable")
	ErrGeneratorUnavailable = errors.New("service de génération indisponible")
	ErrNoQuestionsGenerated = errors.New("impossible de générer des questions")
	ErrInvalidMetrics       = errors.New("métriques comportementales invalides")
)
