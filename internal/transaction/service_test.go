package transaction_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finances/internal/category"
	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func balance(income, outcome string) transaction.Balance {
	return transaction.NewBalance(dec(income), dec(outcome))
}

func TestService_Create(t *testing.T) {
	food := &category.Category{ID: uuid.New(), Title: "Food"}

	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(repo *transaction.MockRepository, itx *transaction.MockTx)
		wantErr   error
		verify    func(t *testing.T, got *transaction.Transaction)
	}

	tests := []testCase{
		{
			name: "ExistingCategory",
			args: args{params: transaction.CreateParams{
				Title: "Groceries", Value: dec("50"), Type: transaction.TypeOutcome, Category: "Food",
			}},
			setupMock: func(repo *transaction.MockRepository, itx *transaction.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(itx, nil)
				itx.EXPECT().FindCategoryByTitle(gomock.Any(), "Food").Return(food, nil)
				itx.EXPECT().GetBalance(gomock.Any()).Return(balance("100", "0"), nil)
				itx.EXPECT().
					CreateTransactions(gomock.Any(), gomock.Len(1)).
					DoAndReturn(func(_ context.Context, txs []*transaction.Transaction) error {
						txs[0].ID = uuid.New()
						return nil
					})
				itx.EXPECT().Commit().Return(nil)
				itx.EXPECT().Rollback().Return(nil)
			},
			verify: func(t *testing.T, got *transaction.Transaction) {
				assert.NotEqual(t, uuid.Nil, got.ID)
				assert.Equal(t, food.ID, got.CategoryID)
				assert.Equal(t, "Groceries", got.Title)
			},
		},
		{
			name: "NewCategory",
			args: args{params: transaction.CreateParams{
				Title: "Salary", Value: dec("5000"), Type: transaction.TypeIncome, Category: "Job",
			}},
			setupMock: func(repo *transaction.MockRepository, itx *transaction.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(itx, nil)
				itx.EXPECT().FindCategoryByTitle(gomock.Any(), "Job").Return(nil, category.ErrNotFound)
				itx.EXPECT().
					CreateCategories(gomock.Any(), gomock.Len(1)).
					DoAndReturn(func(_ context.Context, cats []*category.Category) error {
						assert.Equal(t, "Job", cats[0].Title)
						return nil
					})
				itx.EXPECT().GetBalance(gomock.Any()).Return(balance("0", "0"), nil)
				itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(1)).Return(nil)
				itx.EXPECT().Commit().Return(nil)
				itx.EXPECT().Rollback().Return(nil)
			},
			verify: func(t *testing.T, got *transaction.Transaction) {
				require.NotNil(t, got.Category)
				assert.Equal(t, "Job", got.Category.Title)
				assert.Equal(t, got.Category.ID, got.CategoryID)
			},
		},
		{
			name: "OutcomeEqualToTotal",
			args: args{params: transaction.CreateParams{
				Title: "Rent", Value: dec("1200.00"), Type: transaction.TypeOutcome, Category: "Housing",
			}},
			setupMock: func(repo *transaction.MockRepository, itx *transaction.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(itx, nil)
				itx.EXPECT().FindCategoryByTitle(gomock.Any(), "Housing").
					Return(&category.Category{ID: uuid.New(), Title: "Housing"}, nil)
				itx.EXPECT().GetBalance(gomock.Any()).Return(balance("1500", "300"), nil)
				itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(1)).Return(nil)
				itx.EXPECT().Commit().Return(nil)
				itx.EXPECT().Rollback().Return(nil)
			},
		},
		{
			name: "InsufficientBalance",
			args: args{params: transaction.CreateParams{
				Title: "Rent", Value: dec("1200.01"), Type: transaction.TypeOutcome, Category: "Housing",
			}},
			setupMock: func(repo *transaction.MockRepository, itx *transaction.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(itx, nil)
				itx.EXPECT().FindCategoryByTitle(gomock.Any(), "Housing").
					Return(&category.Category{ID: uuid.New(), Title: "Housing"}, nil)
				itx.EXPECT().GetBalance(gomock.Any()).Return(balance("1500", "300"), nil)
				itx.EXPECT().Rollback().Return(nil)
			},
			wantErr: transaction.ErrInsufficientBalance,
		},
		{
			name: "IncomeIgnoresBalance",
			args: args{params: transaction.CreateParams{
				Title: "Refund", Value: dec("10"), Type: transaction.TypeIncome, Category: "Misc",
			}},
			setupMock: func(repo *transaction.MockRepository, itx *transaction.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(itx, nil)
				itx.EXPECT().FindCategoryByTitle(gomock.Any(), "Misc").
					Return(&category.Category{ID: uuid.New(), Title: "Misc"}, nil)
				itx.EXPECT().GetBalance(gomock.Any()).Return(balance("0", "0"), nil)
				itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(1)).Return(nil)
				itx.EXPECT().Commit().Return(nil)
				itx.EXPECT().Rollback().Return(nil)
			},
		},
		{
			name: "MissingTitle",
			args: args{params: transaction.CreateParams{
				Title: "  ", Value: dec("10"), Type: transaction.TypeIncome, Category: "Misc",
			}},
			wantErr: transaction.ErrInvalidParams,
		},
		{
			name: "UnknownType",
			args: args{params: transaction.CreateParams{
				Title: "Gift", Value: dec("10"), Type: "transfer", Category: "Misc",
			}},
			wantErr: transaction.ErrInvalidParams,
		},
		{
			name: "NegativeValue",
			args: args{params: transaction.CreateParams{
				Title: "Gift", Value: dec("-1"), Type: transaction.TypeIncome, Category: "Misc",
			}},
			wantErr: transaction.ErrInvalidParams,
		},
		{
			name: "StoreErrorPropagates",
			args: args{params: transaction.CreateParams{
				Title: "Gift", Value: dec("1"), Type: transaction.TypeIncome, Category: "Misc",
			}},
			setupMock: func(repo *transaction.MockRepository, itx *transaction.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(itx, nil)
				itx.EXPECT().FindCategoryByTitle(gomock.Any(), "Misc").Return(nil, errDB)
				itx.EXPECT().Rollback().Return(nil)
			},
			wantErr: errDB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			itx := transaction.NewMockTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, itx)
			}

			svc := transaction.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)

			if tt.verify != nil {
				tt.verify(t, got)
			}
		})
	}
}

var errDB = errors.New("db error")

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	income := transaction.TypeIncome
	filter := transaction.ListFilter{Type: &income}

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), filter).
		Return([]*transaction.Transaction{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	svc := transaction.NewService(repo)
	got, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, transaction.ErrNotFound)

	svc := transaction.NewService(repo)
	_, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestService_ImportBatch_NewCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockTx(ctrl)
	svc := transaction.NewService(repo)

	rows := []transaction.ImportParams{
		{Title: "Salary", Type: transaction.TypeIncome, Value: dec("5000"), Category: "Job"},
		{Title: "Rent", Type: transaction.TypeOutcome, Value: dec("1200"), Category: "Housing"},
	}

	repo.EXPECT().Begin(gomock.Any()).Return(itx, nil)
	itx.EXPECT().FindCategoriesByTitles(gomock.Any(), []string{"Job", "Housing"}).Return(nil, nil)
	itx.EXPECT().
		CreateCategories(gomock.Any(), gomock.Len(2)).
		DoAndReturn(func(_ context.Context, cats []*category.Category) error {
			assert.Equal(t, "Job", cats[0].Title)
			assert.Equal(t, "Housing", cats[1].Title)
			return nil
		})
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(2)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), transaction.Batch{Rows: rows})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Len(t, result.NewCategories, 2)
	assert.Equal(t, "Job", result.Transactions[0].Category.Title)
	assert.Equal(t, "Housing", result.Transactions[1].Category.Title)
}

func TestService_ImportBatch_ReusesExistingCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockTx(ctrl)
	svc := transaction.NewService(repo)

	food := &category.Category{ID: uuid.New(), Title: "Food"}
	rows := []transaction.ImportParams{
		{Title: "Lunch", Type: transaction.TypeOutcome, Value: dec("12.5"), Category: "Food"},
		{Title: "Dinner", Type: transaction.TypeOutcome, Value: dec("30"), Category: "Food"},
	}

	repo.EXPECT().Begin(gomock.Any()).Return(itx, nil)
	itx.EXPECT().FindCategoriesByTitles(gomock.Any(), []string{"Food"}).Return([]*category.Category{food}, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(2)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), transaction.Batch{Rows: rows})
	require.NoError(t, err)
	assert.Empty(t, result.NewCategories)

	for _, tx := range result.Transactions {
		assert.Equal(t, food.ID, tx.CategoryID)
	}
}

func TestService_ImportBatch_UnresolvedCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockTx(ctrl)
	svc := transaction.NewService(repo)

	// The declared title list omits "Food", so the row cannot be linked.
	batch := transaction.Batch{
		Rows: []transaction.ImportParams{
			{Title: "Lunch", Type: transaction.TypeOutcome, Value: dec("12.5"), Category: "Food"},
		},
		Categories: []string{},
	}

	repo.EXPECT().Begin(gomock.Any()).Return(itx, nil)
	itx.EXPECT().FindCategoriesByTitles(gomock.Any(), []string{}).Return(nil, nil)
	itx.EXPECT().Rollback().Return(nil)

	_, err := svc.ImportBatch(context.Background(), batch)
	assert.ErrorIs(t, err, transaction.ErrUnresolvedCategory)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	result, err := svc.ImportBatch(context.Background(), transaction.Batch{})
	require.NoError(t, err)
	assert.Empty(t, result.Transactions)
	assert.Empty(t, result.NewCategories)
}

func TestService_ImportBatch_CreateFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockTx(ctrl)
	svc := transaction.NewService(repo)

	rows := []transaction.ImportParams{
		{Title: "Salary", Type: transaction.TypeIncome, Value: dec("5000"), Category: "Job"},
	}

	repo.EXPECT().Begin(gomock.Any()).Return(itx, nil)
	itx.EXPECT().FindCategoriesByTitles(gomock.Any(), []string{"Job"}).Return(nil, nil)
	itx.EXPECT().CreateCategories(gomock.Any(), gomock.Len(1)).Return(nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(1)).Return(errDB)
	itx.EXPECT().Rollback().Return(nil)

	_, err := svc.ImportBatch(context.Background(), transaction.Batch{Rows: rows})
	assert.ErrorIs(t, err, errDB)
}

func TestCategoryTitles(t *testing.T) {
	rows := []transaction.ImportParams{
		{Category: "Food"},
		{Category: "Job"},
		{Category: "Food"},
		{Category: "Housing"},
	}

	assert.Equal(t, []string{"Food", "Job", "Housing"}, transaction.CategoryTitles(rows))
}
