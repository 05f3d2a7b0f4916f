package wheel

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"
)

func testSeed(i int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("seed-%d", i)))
	return hex.EncodeToString(sum[:])
}

func TestSnapshotDigestDependsOnOrderAndCounts(t *testing.T) {
	base := []Candidate{{ParticipantID: "a", Tickets: 1}, {ParticipantID: "b", Tickets: 9}}
	swapped := []Candidate{{ParticipantID: "b", Tickets: 9}, {ParticipantID: "a", Tickets: 1}}
	changed := []Candidate{{ParticipantID: "a", Tickets: 2}, {ParticipantID: "b", Tickets: 9}}

	digest := SnapshotDigest("c1", base)
	if digest != SnapshotDigest("c1", base) {
		t.Fatalf("digest must be stable")
	}
	if len(digest) != 64 {
		t.Fatalf("expected hex sha256, got %q", digest)
	}
	if digest == SnapshotDigest("c1", swapped) {
		t.Fatalf("digest must depend on candidate order")
	}
	if digest == SnapshotDigest("c1", changed) {
		t.Fatalf("digest must depend on ticket counts")
	}
	if digest == SnapshotDigest("c2", base) {
		t.Fatalf("digest must depend on competition id")
	}
}

func TestDrawTicketIndexDeterministicAndInRange(t *testing.T) {
	digest := SnapshotDigest("c1", []Candidate{{ParticipantID: "a", Tickets: 7}})
	for i := 0; i < 200; i++ {
		seed := testSeed(i)
		first, err := DrawTicketIndex(seed, digest, 7)
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		second, err := DrawTicketIndex(seed, digest, 7)
		if err != nil {
			t.Fatalf("draw again: %v", err)
		}
		if first != second {
			t.Fatalf("draw is not deterministic: %d != %d", first, second)
		}
		if first < 0 || first >= 7 {
			t.Fatalf("index %d out of range", first)
		}
	}
}

func TestDrawTicketIndexRejectsInvalidInput(t *testing.T) {
	digest := SnapshotDigest("c1", nil)

	if _, err := DrawTicketIndex(testSeed(1), digest, 0); !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("expected ErrEmptyPool, got %v", err)
	}
	if _, err := DrawTicketIndex("not-hex", digest, 3); !errors.Is(err, ErrInvalidSeed) {
		t.Fatalf("expected ErrInvalidSeed for non-hex seed, got %v", err)
	}
	if _, err := DrawTicketIndex("abcd", digest, 3); !errors.Is(err, ErrInvalidSeed) {
		t.Fatalf("expected ErrInvalidSeed for short seed, got %v", err)
	}
}

func TestCandidateAtResolvesCumulativeOwner(t *testing.T) {
	candidates := []Candidate{
		{ParticipantID: "a", Tickets: 1},
		{ParticipantID: "skip", Tickets: 0},
		{ParticipantID: "b", Tickets: 9},
	}

	got, err := CandidateAt(candidates, 0)
	if err != nil || got.ParticipantID != "a" {
		t.Fatalf("index 0: got %+v err=%v", got, err)
	}
	for index := int64(1); index < 10; index++ {
		got, err := CandidateAt(candidates, index)
		if err != nil || got.ParticipantID != "b" {
			t.Fatalf("index %d: got %+v err=%v", index, got, err)
		}
	}
	if _, err := CandidateAt(candidates, 10); !errors.Is(err, ErrIndexOutOfPool) {
		t.Fatalf("expected ErrIndexOutOfPool, got %v", err)
	}
	if _, err := CandidateAt(candidates, -1); !errors.Is(err, ErrIndexOutOfPool) {
		t.Fatalf("expected ErrIndexOutOfPool for negative index, got %v", err)
	}
}

func TestDrawDistributionFollowsTicketWeights(t *testing.T) {
	candidates := []Candidate{{ParticipantID: "a", Tickets: 1}, {ParticipantID: "b", Tickets: 9}}
	digest := SnapshotDigest("c1", candidates)

	const draws = 10000
	wins := map[string]int{}
	for i := 0; i < draws; i++ {
		index, err := DrawTicketIndex(testSeed(i), digest, 10)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		winner, err := CandidateAt(candidates, index)
		if err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
		wins[winner.ParticipantID]++
	}

	// expected 1000 for a, standard deviation is 30.
	if wins["a"] < 850 || wins["a"] > 1150 {
		t.Fatalf("participant a won %d of %d draws, expected about 10%%", wins["a"], draws)
	}
	if wins["a"]+wins["b"] != draws {
		t.Fatalf("unexpected winners: %+v", wins)
	}
}

func newLockedRun(t *testing.T) Run {
	t.Helper()

	candidates := []Candidate{
		{ParticipantID: "u2", Tickets: 5},
		{ParticipantID: "u1", Tickets: 3},
		{ParticipantID: "u3", Tickets: 1},
	}
	seed := testSeed(42)
	commitment, err := Commitment(seed)
	if err != nil {
		t.Fatalf("commitment: %v", err)
	}

	return Run{
		ID:             "run-1",
		CompetitionID:  "c1",
		Status:         StatusReady,
		LockedAt:       time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		LockedBy:       "admin",
		Candidates:     candidates,
		TotalTickets:   SumTickets(candidates),
		Seed:           seed,
		SeedCommitment: commitment,
		SnapshotDigest: SnapshotDigest("c1", candidates),
	}
}

func TestVerifyReplaysCompletedRun(t *testing.T) {
	run := newLockedRun(t)

	ready, err := Verify(run)
	if err != nil {
		t.Fatalf("verify ready run: %v", err)
	}
	if !ready.Valid() {
		t.Fatalf("expected ready run to verify, got %+v", ready)
	}

	index, err := DrawTicketIndex(run.Seed, run.SnapshotDigest, run.TotalTickets)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	winner, err := CandidateAt(run.Candidates, index)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	done := run.Apply(Outcome{RunAt: run.LockedAt.Add(time.Hour), WinnerID: winner.ParticipantID, WinnerTicketIndex: index})

	got, err := Verify(done)
	if err != nil {
		t.Fatalf("verify done run: %v", err)
	}
	if !got.Valid() || got.WinnerID != winner.ParticipantID || got.TicketIndex != index {
		t.Fatalf("unexpected verification: %+v", got)
	}
	if run.Status != StatusReady || run.RunAt != nil {
		t.Fatalf("Apply must not mutate the original run")
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	run := newLockedRun(t)
	run.Candidates[1].Tickets = 30
	run.TotalTickets = SumTickets(run.Candidates)

	got, err := Verify(run)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.DigestMatches || got.Valid() {
		t.Fatalf("expected tampered snapshot to fail verification, got %+v", got)
	}

	forged := newLockedRun(t)
	forged.Seed = testSeed(7)
	got, err = Verify(forged)
	if err != nil {
		t.Fatalf("verify forged: %v", err)
	}
	if got.CommitmentMatches {
		t.Fatalf("expected swapped seed to break the commitment")
	}
}
