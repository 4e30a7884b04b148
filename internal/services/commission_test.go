package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	apperrors "github.com/abrezinsky/lottoledger/internal/errors"
	"github.com/abrezinsky/lottoledger/internal/logger"
	"github.com/abrezinsky/lottoledger/internal/models"
	"github.com/abrezinsky/lottoledger/internal/repository"
	"github.com/abrezinsky/lottoledger/internal/repository/mocks"
	"github.com/abrezinsky/lottoledger/internal/services"
	"github.com/abrezinsky/lottoledger/internal/testutil"
)

// tree holds the IDs of the standard reseller fixture
type tree struct {
	operator, regional, sub   int64
	agencyA, agencyB          int64
	boothA1, boothA2, boothB1 int64
}

var (
	june3  = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	june10 = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	week1  = models.NewDateWindow(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC))
	week2  = models.NewDateWindow(time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC))
)

// buildTree creates the fixture and its week-1 wagers:
//
//	operator
//	└─ regional (15/10)
//	   ├─ agencyA (10/5): boothA1 sales 500 prizes 100, boothA2 sales 300
//	   └─ sub (12/8)
//	      └─ agencyB (10/5): boothB1 sales 200 prizes 50
func buildTree(t *testing.T, repo *repository.Repository) tree {
	t.Helper()
	var tr tree
	tr.operator = testutil.CreateEntity(t, repo, "Operator", models.EntityOperatorAdmin, nil, "20", "20")
	tr.regional = testutil.CreateEntity(t, repo, "North", models.EntityRegionalDistributor, &tr.operator, "15", "10")
	tr.agencyA = testutil.CreateEntity(t, repo, "Agency A", models.EntityAgency, &tr.regional, "10", "5")
	tr.sub = testutil.CreateEntity(t, repo, "North Sub", models.EntitySubDistributor, &tr.regional, "12", "8")
	tr.agencyB = testutil.CreateEntity(t, repo, "Agency B", models.EntityAgency, &tr.sub, "10", "5")
	tr.boothA1 = testutil.CreateEntity(t, repo, "Booth A1", models.EntityBooth, &tr.agencyA, "0", "0")
	tr.boothA2 = testutil.CreateEntity(t, repo, "Booth A2", models.EntityBooth, &tr.agencyA, "0", "0")
	tr.boothB1 = testutil.CreateEntity(t, repo, "Booth B1", models.EntityBooth, &tr.agencyB, "0", "0")

	testutil.PlaceWager(t, repo, "a1-lost", tr.boothA1, "400", models.WagerLost, "0", june3)
	testutil.PlaceWager(t, repo, "a1-won", tr.boothA1, "100", models.WagerWon, "100", june3)
	testutil.PlaceWager(t, repo, "a2-lost", tr.boothA2, "300", models.WagerLost, "0", june3)
	testutil.PlaceWager(t, repo, "a2-void", tr.boothA2, "999", models.WagerVoided, "0", june3)
	testutil.PlaceWager(t, repo, "b1-lost", tr.boothB1, "150", models.WagerLost, "0", june3)
	testutil.PlaceWager(t, repo, "b1-paid", tr.boothB1, "50", models.WagerPaid, "50", june3)
	// outside week 1
	testutil.PlaceWager(t, repo, "a1-late", tr.boothA1, "1000", models.WagerWon, "5000", june10)
	return tr
}

func setupCommission(t *testing.T) (*services.CommissionEngine, *services.Hierarchy, tree) {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	tr := buildTree(t, repo)
	entities, err := repo.ListEntities(context.Background())
	if err != nil {
		t.Fatalf("ListEntities failed: %v", err)
	}
	return services.NewCommissionEngine(logger.New(), repo), services.NewHierarchy(entities), tr
}

func nodeStats(t *testing.T, e *services.CommissionEngine, h *services.Hierarchy, id int64, w models.DateWindow) models.EntityStats {
	t.Helper()
	stats, err := e.NodeStats(context.Background(), h, id, w)
	if err != nil {
		t.Fatalf("NodeStats(%d) failed: %v", id, err)
	}
	return stats
}

func expectDec(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(testutil.Dec(t, want)) {
		t.Errorf("%s = %s, want %s", field, got, want)
	}
}

// Scenario: agency with booth A (500/100) and booth B (300/0), 10% sales share, 5% profit share
func TestNodeStats_AgencyFigures(t *testing.T) {
	e, h, tr := setupCommission(t)

	s := nodeStats(t, e, h, tr.agencyA, week1)

	expectDec(t, "sales", s.Sales, "800")
	expectDec(t, "prizes", s.Prizes, "100")
	expectDec(t, "commission", s.Commission, "80")
	expectDec(t, "balance", s.Balance, "620")
	expectDec(t, "profit", s.Profit, "31")
	if !s.HasChildren {
		t.Error("expected agency with booths to have children")
	}
}

// Scenario: regional with a direct agency and a sub-distributor's agency
func TestNodeStats_RegionalAddsBothPaths(t *testing.T) {
	e, h, tr := setupCommission(t)

	b := nodeStats(t, e, h, tr.agencyB, week1)
	expectDec(t, "agencyB sales", b.Sales, "200")
	expectDec(t, "agencyB prizes", b.Prizes, "50")
	expectDec(t, "agencyB commission", b.Commission, "20")
	expectDec(t, "agencyB balance", b.Balance, "130")

	r := nodeStats(t, e, h, tr.regional, week1)
	expectDec(t, "regional sales", r.Sales, "1000")
	expectDec(t, "regional prizes", r.Prizes, "150")
}

func TestChildStats_SalesAdditivity(t *testing.T) {
	e, h, tr := setupCommission(t)
	ctx := context.Background()

	for _, node := range []int64{tr.operator, tr.regional, tr.sub, tr.agencyA, tr.agencyB} {
		for _, w := range []models.DateWindow{week1, week2} {
			parent := nodeStats(t, e, h, node, w)
			children, err := e.ChildStats(ctx, h, node, w)
			if err != nil {
				t.Fatalf("ChildStats(%d) failed: %v", node, err)
			}
			sum := decimal.Zero
			for _, c := range children {
				sum = sum.Add(c.Sales)
			}
			if !sum.Equal(parent.Sales) {
				t.Errorf("node %d window %s: children sum to %s, node has %s", node, w, sum, parent.Sales)
			}

			again := nodeStats(t, e, h, node, w)
			if !again.Sales.Equal(parent.Sales) {
				t.Errorf("node %d: recomputation changed sales", node)
			}
		}
	}
}

func TestChildStats_SortedBySalesDescending(t *testing.T) {
	e, h, tr := setupCommission(t)

	children, err := e.ChildStats(context.Background(), h, tr.regional, week1)
	if err != nil {
		t.Fatalf("ChildStats failed: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	if children[0].EntityID != tr.agencyA || children[1].EntityID != tr.sub {
		t.Errorf("expected agencyA (800) before sub (200), got %d then %d", children[0].EntityID, children[1].EntityID)
	}
}

func TestChildStats_TiesKeepDirectoryOrder(t *testing.T) {
	e, h, tr := setupCommission(t)

	// no wagers in this window: every child ties at zero
	quiet := models.NewDateWindow(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC))
	children, err := e.ChildStats(context.Background(), h, tr.regional, quiet)
	if err != nil {
		t.Fatalf("ChildStats failed: %v", err)
	}
	if len(children) != 2 || children[0].EntityID != tr.agencyA || children[1].EntityID != tr.sub {
		t.Errorf("expected children in directory order, got %+v", children)
	}
}

func TestNodeStats_ProfitGating(t *testing.T) {
	e, h, tr := setupCommission(t)

	// week 2 at booth A1: sales 1000, prizes 5000
	s := nodeStats(t, e, h, tr.agencyA, week2)
	if !s.Balance.IsNegative() {
		t.Fatalf("expected negative balance, got %s", s.Balance)
	}
	if !s.Profit.IsZero() {
		t.Errorf("profit = %s, want 0 on a loss", s.Profit)
	}
	expectDec(t, "commission", s.Commission, "100")

	r := nodeStats(t, e, h, tr.regional, week2)
	if !r.Profit.IsZero() {
		t.Errorf("regional profit = %s, want 0 on a loss", r.Profit)
	}
}

func TestNodeStats_ProfitOnlyForResellerTiers(t *testing.T) {
	e, h, tr := setupCommission(t)

	op := nodeStats(t, e, h, tr.operator, week1)
	if !op.Balance.IsPositive() {
		t.Fatalf("expected a positive operator balance, got %s", op.Balance)
	}
	if !op.Profit.IsZero() {
		t.Errorf("operator profit = %s, want 0", op.Profit)
	}

	booth := nodeStats(t, e, h, tr.boothA2, week1)
	if !booth.Profit.IsZero() {
		t.Errorf("booth profit = %s, want 0", booth.Profit)
	}
	if booth.HasChildren {
		t.Error("a booth never has children")
	}
}

func TestNodeStats_InclusiveDayBounds(t *testing.T) {
	e, h, tr := setupCommission(t)
	day := models.NewDateWindow(june3, june3)

	s := nodeStats(t, e, h, tr.agencyA, day)
	expectDec(t, "single-day sales", s.Sales, "800")
}

func TestNodeStats_ReversedWindowIsEmpty(t *testing.T) {
	e, h, tr := setupCommission(t)
	reversed := models.NewDateWindow(june10, june3)

	s := nodeStats(t, e, h, tr.regional, reversed)
	if !s.Sales.IsZero() || !s.Prizes.IsZero() || !s.Profit.IsZero() || s.HasChildren {
		t.Errorf("expected zero stats, got %+v", s)
	}

	children, err := e.ChildStats(context.Background(), h, tr.regional, reversed)
	if err != nil {
		t.Fatalf("ChildStats failed: %v", err)
	}
	if len(children) != 0 {
		t.Errorf("expected no children for a reversed window, got %d", len(children))
	}
}

func TestNodeStats_EmptySubtree(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	op := testutil.CreateEntity(t, repo, "Operator", models.EntityOperatorAdmin, nil, "20", "20")
	lonely := testutil.CreateEntity(t, repo, "Lonely", models.EntityAgency, nil, "10", "5")
	entities, _ := repo.ListEntities(context.Background())
	e := services.NewCommissionEngine(logger.New(), repo)
	h := services.NewHierarchy(entities)

	for _, id := range []int64{op, lonely} {
		s := nodeStats(t, e, h, id, week1)
		if !s.Sales.IsZero() || s.HasChildren {
			t.Errorf("node %d: expected zero stats without children, got %+v", id, s)
		}
	}
}

func TestNodeStats_UnknownNode(t *testing.T) {
	e, h, _ := setupCommission(t)

	_, err := e.NodeStats(context.Background(), h, 4040, week1)
	expectKind(t, err, apperrors.ErrInvalidOperation)

	_, err = e.ChildStats(context.Background(), h, 4040, week1)
	expectKind(t, err, apperrors.ErrInvalidOperation)
}

func TestNodeStats_ToleratesCapViolations(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	op := testutil.CreateEntity(t, repo, "Operator", models.EntityOperatorAdmin, nil, "5", "5")
	reg := testutil.CreateEntity(t, repo, "Greedy", models.EntityRegionalDistributor, &op, "40", "90")
	ag := testutil.CreateEntity(t, repo, "Greedier", models.EntityAgency, &reg, "60", "100")
	booth := testutil.CreateEntity(t, repo, "Booth", models.EntityBooth, &ag, "0", "0")
	testutil.PlaceWager(t, repo, "t1", booth, "100", models.WagerLost, "0", june3)

	entities, _ := repo.ListEntities(context.Background())
	e := services.NewCommissionEngine(logger.New(), repo)
	h := services.NewHierarchy(entities)

	s := nodeStats(t, e, h, ag, week1)
	expectDec(t, "commission", s.Commission, "60")
	expectDec(t, "profit", s.Profit, "40")
}

// CommissionSuite exercises the engine against a mocked wager store
type CommissionSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	stats  *mocks.MockWagerStatsReader
	engine *services.CommissionEngine
	h      *services.Hierarchy
	ctx    context.Context
}

func (s *CommissionSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.stats = mocks.NewMockWagerStatsReader(s.ctrl)
	s.engine = services.NewCommissionEngine(logger.New(), s.stats)
	s.h = services.NewHierarchy(sampleDirectory())
	s.ctx = context.Background()
}

func TestCommissionSuite(t *testing.T) {
	suite.Run(t, new(CommissionSuite))
}

func (s *CommissionSuite) TestQueriesWindowBounds() {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)

	s.stats.EXPECT().QueryStakes(gomock.Any(), []int64{6, 7}, from, to).
		Return(map[int64]decimal.Decimal{6: decimal.NewFromInt(500), 7: decimal.NewFromInt(300)}, nil)
	s.stats.EXPECT().QueryPayouts(gomock.Any(), []int64{6, 7}, from, to).
		Return(map[int64]decimal.Decimal{6: decimal.NewFromInt(100)}, nil)

	stats, err := s.engine.NodeStats(s.ctx, s.h, 4, week1)
	s.Require().NoError(err)
	s.True(stats.Sales.Equal(decimal.NewFromInt(800)))
	s.True(stats.Prizes.Equal(decimal.NewFromInt(100)))
}

func (s *CommissionSuite) TestChildStatsQueriesOnce() {
	s.stats.EXPECT().QueryStakes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[int64]decimal.Decimal{8: decimal.NewFromInt(200), 6: decimal.NewFromInt(50)}, nil).Times(1)
	s.stats.EXPECT().QueryPayouts(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[int64]decimal.Decimal{}, nil).Times(1)

	children, err := s.engine.ChildStats(s.ctx, s.h, 2, week1)
	s.Require().NoError(err)
	s.Require().Len(children, 2)
	s.Equal(int64(3), children[0].EntityID)
	s.Equal(int64(4), children[1].EntityID)
}

func (s *CommissionSuite) TestStoreFailureIsDataUnavailable() {
	s.stats.EXPECT().QueryStakes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset")).AnyTimes()
	s.stats.EXPECT().QueryPayouts(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[int64]decimal.Decimal{}, nil).AnyTimes()

	_, err := s.engine.NodeStats(s.ctx, s.h, 1, week1)
	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.ErrDataUnavailable))
}

func (s *CommissionSuite) TestNoQueriesWithoutBooths() {
	// booth-less subtree and reversed window never reach the store
	h := services.NewHierarchy([]models.OrgEntity{entity(1, models.EntityOperatorAdmin, nil)})

	stats, err := s.engine.NodeStats(s.ctx, h, 1, week1)
	s.Require().NoError(err)
	s.True(stats.Sales.IsZero())
	s.False(stats.HasChildren)

	_, err = s.engine.NodeStats(s.ctx, s.h, 2, models.NewDateWindow(june10, june3))
	s.Require().NoError(err)
}
