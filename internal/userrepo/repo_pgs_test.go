package userrepo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/go-shopfront/shopfront/internal/domain"
)

var userColumns = []string{
	"username", "hashed_password", "full_name", "email", "password_changed_at", "created_at",
}

func TestCreate(t *testing.T) {
	t.Parallel()

	arg := domain.CreateUserParams{
		Username:       "gopher",
		HashedPassword: "secret-hash",
		FullName:       "Go Pher",
		Email:          "gopher@example.com",
	}
	now := time.Now()

	testCases := []struct {
		name       string
		buildStubs func(mock sqlmock.Sqlmock)
		wantErr    error
	}{
		{
			name: "OK",
			buildStubs: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(userColumns).
					AddRow(arg.Username, arg.HashedPassword, arg.FullName, arg.Email, now, now)
				mock.ExpectQuery("INSERT INTO users").
					WithArgs(arg.Username, arg.HashedPassword, arg.FullName, arg.Email).
					WillReturnRows(rows)
			},
		},
		{
			name: "UsernameAlreadyExists",
			buildStubs: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO users").
					WithArgs(arg.Username, arg.HashedPassword, arg.FullName, arg.Email).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_pkey"})
			},
			wantErr: domain.ErrUsernameAlreadyExists,
		},
		{
			name: "EmailAlreadyExists",
			buildStubs: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO users").
					WithArgs(arg.Username, arg.HashedPassword, arg.FullName, arg.Email).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
			},
			wantErr: domain.ErrEmailALreadyExists,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tc.buildStubs(mock)

			repo := NewRepoPGS(db)

			got, err := repo.Create(context.Background(), arg)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, arg.Username, got.Username)
				require.Equal(t, arg.Email, got.Email)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		now := time.Now()
		rows := sqlmock.NewRows(userColumns).
			AddRow("gopher", "secret-hash", "Go Pher", "gopher@example.com", now, now)
		mock.ExpectQuery("SELECT(.|\n)+FROM users").WithArgs("gopher").WillReturnRows(rows)

		repo := NewRepoPGS(db)

		got, err := repo.Get(context.Background(), "gopher")
		require.NoError(t, err)
		require.Equal(t, "gopher", got.Username)
		require.Equal(t, "secret-hash", got.HashedPassword)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT(.|\n)+FROM users").WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewRepoPGS(db)

		_, err = repo.Get(context.Background(), "missing")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
