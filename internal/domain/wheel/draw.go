package wheel

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// SeedBytes is the size of the random seed committed at lock time.
const SeedBytes = 32

// maxDrawAttempts bounds rejection sampling. The acceptance probability per
// attempt is above one half for any total, so the bound is never reached in
// practice.
const maxDrawAttempts = 256

var (
	ErrEmptyPool      = errors.New("candidate pool is empty")
	ErrInvalidSeed    = errors.New("invalid draw seed")
	ErrIndexOutOfPool = errors.New("ticket index outside candidate pool")
)

// SnapshotDigest returns the hex sha256 of the canonical encoding of a
// competition snapshot. Candidate order is part of the digest.
func SnapshotDigest(competitionID string, candidates []Candidate) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("competition:")
	_, _ = buf.WriteString(competitionID)
	_ = buf.WriteByte('\n')
	_, _ = buf.WriteString("total:")
	_, _ = buf.WriteString(strconv.FormatInt(SumTickets(candidates), 10))
	_ = buf.WriteByte('\n')
	for i, c := range candidates {
		_, _ = buf.WriteString(strconv.Itoa(i))
		_ = buf.WriteByte(':')
		_, _ = buf.WriteString(c.ParticipantID)
		_ = buf.WriteByte(':')
		_, _ = buf.WriteString(strconv.FormatInt(c.Tickets, 10))
		_ = buf.WriteByte('\n')
	}

	sum := sha256.Sum256(buf.B)
	return hex.EncodeToString(sum[:])
}

// Commitment returns the hex sha256 of the decoded seed.
func Commitment(seed string) (string, error) {
	raw, err := decodeSeed(seed)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// DrawTicketIndex derives a ticket index in [0, total) from the snapshot
// digest and the seed. The same inputs always yield the same index.
func DrawTicketIndex(seed, digest string, total int64) (int64, error) {
	if total <= 0 {
		return 0, ErrEmptyPool
	}
	rawSeed, err := decodeSeed(seed)
	if err != nil {
		return 0, err
	}
	rawDigest, err := hex.DecodeString(digest)
	if err != nil {
		return 0, fmt.Errorf("%w: digest is not hex", ErrInvalidSeed)
	}

	n := uint64(total)
	limit := math.MaxUint64 - math.MaxUint64%n

	input := make([]byte, 0, len(rawDigest)+len(rawSeed)+8)
	input = append(input, rawDigest...)
	input = append(input, rawSeed...)
	input = append(input, make([]byte, 8)...)
	counterAt := len(input) - 8

	for counter := uint64(0); counter < maxDrawAttempts; counter++ {
		binary.BigEndian.PutUint64(input[counterAt:], counter)
		sum := sha256.Sum256(input)
		v := binary.BigEndian.Uint64(sum[:8])
		if v < limit {
			return int64(v % n), nil
		}
	}

	return 0, fmt.Errorf("draw did not converge after %d attempts", maxDrawAttempts)
}

// CandidateAt resolves the owner of a ticket index by cumulative scan over
// the snapshot in its stored order.
func CandidateAt(candidates []Candidate, index int64) (Candidate, error) {
	if index < 0 {
		return Candidate{}, ErrIndexOutOfPool
	}
	var cumulative int64
	for _, c := range candidates {
		if c.Tickets <= 0 {
			continue
		}
		cumulative += c.Tickets
		if index < cumulative {
			return c, nil
		}
	}
	return Candidate{}, ErrIndexOutOfPool
}

// Verification is the result of replaying a run from its own record.
type Verification struct {
	CommitmentMatches bool
	DigestMatches     bool
	TotalMatches      bool
	TicketIndex       int64
	WinnerID          string
	WinnerMatches     bool
}

// Valid reports whether every recomputed value agrees with the record. A
// ready run has no recorded winner, so only the lock-time values count.
func (v Verification) Valid() bool {
	return v.CommitmentMatches && v.DigestMatches && v.TotalMatches && v.WinnerMatches
}

// Verify recomputes the commitment, digest, total, index and winner of run.
func Verify(run Run) (Verification, error) {
	var out Verification

	commitment, err := Commitment(run.Seed)
	if err != nil {
		return out, err
	}
	out.CommitmentMatches = commitment == run.SeedCommitment
	out.DigestMatches = SnapshotDigest(run.CompetitionID, run.Candidates) == run.SnapshotDigest
	out.TotalMatches = SumTickets(run.Candidates) == run.TotalTickets

	index, err := DrawTicketIndex(run.Seed, run.SnapshotDigest, run.TotalTickets)
	if err != nil {
		return out, err
	}
	winner, err := CandidateAt(run.Candidates, index)
	if err != nil {
		return out, err
	}
	out.TicketIndex = index
	out.WinnerID = winner.ParticipantID

	if run.Status == StatusDone {
		out.WinnerMatches = run.WinnerID == winner.ParticipantID &&
			run.WinnerTicketIndex != nil && *run.WinnerTicketIndex == index
	} else {
		out.WinnerMatches = true
	}

	return out, nil
}

func decodeSeed(seed string) ([]byte, error) {
	raw, err := hex.DecodeString(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: seed is not hex", ErrInvalidSeed)
	}
	if len(raw) != SeedBytes {
		return nil, fmt.Errorf("%w: seed must be %d bytes", ErrInvalidSeed, SeedBytes)
	}
	return raw, nil
}
