package usecase

import (
	"context"
	"errors"
	"time"

	repo "evmarket/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// 決済から戻ってくるまでの猶予
const ContinuationTTL = 30 * time.Minute

var (
	ErrContinuationInvalid = errors.New("invalid continuation token")
	ErrContinuationUsed    = errors.New("continuation token already used")
)

// 継続トークンのclaims。subはtransactionCode。
type continuationClaims struct {
	jwt.RegisteredClaims
}

// ContinuationTokens は決済リダイレクト後に取引を引き継ぐ署名付きトークン。
// jtiをストアに保存し、検証時に1回だけ消費する。
type ContinuationTokens struct {
	secret []byte
	store  repo.ContinuationStore
	idGen  IDGenerator
	clock  Clock
	ttl    time.Duration
}

func NewContinuationTokens(secret string, store repo.ContinuationStore, idGen IDGenerator, clock Clock) *ContinuationTokens {
	return &ContinuationTokens{
		secret: []byte(secret),
		store:  store,
		idGen:  idGen,
		clock:  clock,
		ttl:    ContinuationTTL,
	}
}

func (t *ContinuationTokens) Issue(ctx context.Context, transactionCode string) (string, error) {
	now := t.clock.Now()
	jti := t.idGen.NewID()

	claims := continuationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   transactionCode,
			Audience:  jwt.ClaimStrings{"payment-continuation"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", err
	}
	if err := t.store.Save(ctx, jti, t.ttl); err != nil {
		return "", err
	}
	return signed, nil
}

// Consume は署名/期限/対象コードを検証し、jtiを消費する。
func (t *ContinuationTokens) Consume(ctx context.Context, raw string, transactionCode string) error {
	var claims continuationClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience("payment-continuation"),
		jwt.WithSubject(transactionCode),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.clock.Now),
	)
	if err != nil || claims.ID == "" {
		return ErrContinuationInvalid
	}

	ok, err := t.store.Consume(ctx, claims.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrContinuationUsed
	}
	return nil
}
