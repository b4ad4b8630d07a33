package proto

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// Binary wire format. Every entity starts with a one-byte variant tag,
// followed by its fields in declaration order. All multi-byte integers are
// little-endian regardless of host order, so peers on different hardware
// decode identically. Strings and sequences carry a 4-byte length/count
// prefix.
//
// Encoding is infallible given a buffer of at least EncodedLen bytes; an
// undersized buffer is a contract violation and panics. Decoding fails
// eagerly at the first short read (ErrUnexpectedEOF), unknown tag
// (InvalidTagError) or invalid UTF-8 (UTF8Error), and never returns a
// partial value.

// EncodedLen returns the exact number of bytes EncodeBinary writes.
func (t Trans[UD]) EncodedLen(c PayloadCodec[UD]) int {
	return 1 + t.Req.EncodedLen(c)
}

// EncodeBinary writes the transaction at the front of area and returns the
// unused tail, so sibling values can be encoded contiguously.
func (t Trans[UD]) EncodeBinary(area []byte, c PayloadCodec[UD]) []byte {
	switch t.Kind {
	case TransAsync, TransSync:
		area = putTag(area, byte(t.Kind))
		return t.Req.EncodeBinary(area, c)
	default:
		panic(badKind("trans", uint8(t.Kind)))
	}
}

// DecodeTrans reads a transaction from the front of data and returns the
// unconsumed rest.
func DecodeTrans[UD any](data []byte, c PayloadCodec[UD]) (Trans[UD], []byte, error) {
	tag, data, err := parseTag(data)
	if err != nil {
		return Trans[UD]{}, nil, err
	}
	switch kind := TransKind(tag); kind {
	case TransAsync, TransSync:
		req, data, err := DecodeReq(data, c)
		if err != nil {
			return Trans[UD]{}, nil, err
		}
		return Trans[UD]{Kind: kind, Req: req}, data, nil
	default:
		return Trans[UD]{}, nil, &InvalidTagError{Entity: "trans", Tag: tag}
	}
}

// EncodedLen returns the exact number of bytes EncodeBinary writes.
func (r Req[UD]) EncodedLen(c PayloadCodec[UD]) int {
	switch r.Kind {
	case ReqInit, ReqTerminate:
		return 1
	case ReqLookup:
		return 1 + workloadLen(r.Lookup, func(t LookupTask[UD]) int {
			return t.encodedLen(c)
		})
	default:
		panic(badKind("req", uint8(r.Kind)))
	}
}

// EncodeBinary writes the request at the front of area and returns the
// unused tail.
func (r Req[UD]) EncodeBinary(area []byte, c PayloadCodec[UD]) []byte {
	area = putTag(area, byte(r.Kind))
	switch r.Kind {
	case ReqInit, ReqTerminate:
		return area
	case ReqLookup:
		return putWorkload(area, r.Lookup, func(area []byte, t LookupTask[UD]) []byte {
			return t.encodeBinary(area, c)
		})
	default:
		panic(badKind("req", uint8(r.Kind)))
	}
}

// DecodeReq reads a request from the front of data and returns the
// unconsumed rest.
func DecodeReq[UD any](data []byte, c PayloadCodec[UD]) (Req[UD], []byte, error) {
	tag, data, err := parseTag(data)
	if err != nil {
		return Req[UD]{}, nil, err
	}
	switch ReqKind(tag) {
	case ReqInit:
		return Init[UD](), data, nil
	case ReqTerminate:
		return Terminate[UD](), data, nil
	case ReqLookup:
		w, data, err := parseWorkload(data, func(data []byte) (LookupTask[UD], []byte, error) {
			return parseLookupTask(data, c)
		})
		if err != nil {
			return Req[UD]{}, nil, err
		}
		return Lookup(w), data, nil
	default:
		return Req[UD]{}, nil, &InvalidTagError{Entity: "req", Tag: tag}
	}
}

// EncodedLen returns the exact number of bytes EncodeBinary writes.
func (r Rep[UD]) EncodedLen(c PayloadCodec[UD]) int {
	switch r.Kind {
	case RepInitAck, RepTerminateAck, RepTooBusy, RepWantCrash:
		return 1
	case RepResult:
		return 1 + workloadLen(r.Result, func(lr LookupResult[UD]) int {
			return lr.encodedLen(c)
		})
	case RepUnexpected:
		return 1 + r.Unexpected.EncodedLen(c)
	default:
		panic(badKind("rep", uint8(r.Kind)))
	}
}

// EncodeBinary writes the reply at the front of area and returns the
// unused tail.
func (r Rep[UD]) EncodeBinary(area []byte, c PayloadCodec[UD]) []byte {
	area = putTag(area, byte(r.Kind))
	switch r.Kind {
	case RepInitAck, RepTerminateAck, RepTooBusy, RepWantCrash:
		return area
	case RepResult:
		return putWorkload(area, r.Result, func(area []byte, lr LookupResult[UD]) []byte {
			return lr.encodeBinary(area, c)
		})
	case RepUnexpected:
		return r.Unexpected.EncodeBinary(area, c)
	default:
		panic(badKind("rep", uint8(r.Kind)))
	}
}

// DecodeRep reads a reply from the front of data and returns the
// unconsumed rest.
func DecodeRep[UD any](data []byte, c PayloadCodec[UD]) (Rep[UD], []byte, error) {
	tag, data, err := parseTag(data)
	if err != nil {
		return Rep[UD]{}, nil, err
	}
	switch RepKind(tag) {
	case RepInitAck:
		return InitAck[UD](), data, nil
	case RepTerminateAck:
		return TerminateAck[UD](), data, nil
	case RepTooBusy:
		return TooBusy[UD](), data, nil
	case RepWantCrash:
		return WantCrash[UD](), data, nil
	case RepResult:
		w, data, err := parseWorkload(data, func(data []byte) (LookupResult[UD], []byte, error) {
			return parseLookupResult(data, c)
		})
		if err != nil {
			return Rep[UD]{}, nil, err
		}
		return Result(w), data, nil
	case RepUnexpected:
		req, data, err := DecodeReq(data, c)
		if err != nil {
			return Rep[UD]{}, nil, err
		}
		return Unexpected(req), data, nil
	default:
		return Rep[UD]{}, nil, &InvalidTagError{Entity: "rep", Tag: tag}
	}
}

func workloadLen[T any](w Workload[T], elem func(T) int) int {
	switch w.Kind {
	case WorkloadSingle:
		return 1 + elem(w.One)
	case WorkloadMany:
		n := 1 + 4
		for _, item := range w.Items {
			n += elem(item)
		}
		return n
	default:
		panic(badKind("workload", uint8(w.Kind)))
	}
}

func putWorkload[T any](area []byte, w Workload[T], elem func([]byte, T) []byte) []byte {
	area = putTag(area, byte(w.Kind))
	switch w.Kind {
	case WorkloadSingle:
		return elem(area, w.One)
	case WorkloadMany:
		area = putU32(area, uint32(len(w.Items)))
		for _, item := range w.Items {
			area = elem(area, item)
		}
		return area
	default:
		panic(badKind("workload", uint8(w.Kind)))
	}
}

func parseWorkload[T any](data []byte, elem func([]byte) (T, []byte, error)) (Workload[T], []byte, error) {
	tag, data, err := parseTag(data)
	if err != nil {
		return Workload[T]{}, nil, err
	}
	switch WorkloadKind(tag) {
	case WorkloadSingle:
		item, data, err := elem(data)
		if err != nil {
			return Workload[T]{}, nil, err
		}
		return Single(item), data, nil
	case WorkloadMany:
		count, data, err := parseU32(data)
		if err != nil {
			return Workload[T]{}, nil, err
		}
		// Every element occupies at least one byte, so a count beyond
		// the remaining bytes cannot be honest. Reject it before
		// allocating.
		if uint64(count) > uint64(len(data)) {
			return Workload[T]{}, nil, ErrUnexpectedEOF
		}
		items := make([]T, 0, count)
		for i := uint32(0); i < count; i++ {
			var item T
			item, data, err = elem(data)
			if err != nil {
				return Workload[T]{}, nil, err
			}
			items = append(items, item)
		}
		return Many(items), data, nil
	default:
		return Workload[T]{}, nil, &InvalidTagError{Entity: "workload", Tag: tag}
	}
}

func (t LookupTask[UD]) encodedLen(c PayloadCodec[UD]) int {
	return stringLen(t.Text) + 1 + t.PostAction.encodedLen(c)
}

func (t LookupTask[UD]) encodeBinary(area []byte, c PayloadCodec[UD]) []byte {
	area = putString(area, t.Text)
	area = putTag(area, byte(t.Result))
	return t.PostAction.encodeBinary(area, c)
}

func parseLookupTask[UD any](data []byte, c PayloadCodec[UD]) (LookupTask[UD], []byte, error) {
	text, data, err := parseString(data)
	if err != nil {
		return LookupTask[UD]{}, nil, err
	}
	tag, data, err := parseTag(data)
	if err != nil {
		return LookupTask[UD]{}, nil, err
	}
	result := LookupType(tag)
	switch result {
	case LookupAll, LookupBest, LookupBestOrMine:
	default:
		return LookupTask[UD]{}, nil, &InvalidTagError{Entity: "lookup type", Tag: tag}
	}
	action, data, err := parsePostAction(data, c)
	if err != nil {
		return LookupTask[UD]{}, nil, err
	}
	return LookupTask[UD]{Text: text, Result: result, PostAction: action}, data, nil
}

func (a PostAction[UD]) encodedLen(c PayloadCodec[UD]) int {
	switch a.Kind {
	case PostNone:
		return 1
	case PostInsertNew:
		return 1 + condLen(a.Cond.Kind) + a.Assign.encodedLen() + c.EncodedLen(a.UserData)
	default:
		panic(badKind("post action", uint8(a.Kind)))
	}
}

func (a PostAction[UD]) encodeBinary(area []byte, c PayloadCodec[UD]) []byte {
	area = putTag(area, byte(a.Kind))
	switch a.Kind {
	case PostNone:
		return area
	case PostInsertNew:
		area = putCond(area, a.Cond.Kind, a.Cond.Threshold, "insert cond")
		area = a.Assign.encodeBinary(area)
		return c.EncodeBinary(area, a.UserData)
	default:
		panic(badKind("post action", uint8(a.Kind)))
	}
}

func parsePostAction[UD any](data []byte, c PayloadCodec[UD]) (PostAction[UD], []byte, error) {
	tag, data, err := parseTag(data)
	if err != nil {
		return PostAction[UD]{}, nil, err
	}
	switch PostActionKind(tag) {
	case PostNone:
		return NoAction[UD](), data, nil
	case PostInsertNew:
		condKind, threshold, data, err := parseCond(data, "insert cond")
		if err != nil {
			return PostAction[UD]{}, nil, err
		}
		assign, data, err := parseClusterAssign(data)
		if err != nil {
			return PostAction[UD]{}, nil, err
		}
		userData, data, err := c.DecodeBinary(data)
		if err != nil {
			return PostAction[UD]{}, nil, err
		}
		cond := InsertCond{Kind: condKind, Threshold: threshold}
		return InsertNew(cond, assign, userData), data, nil
	default:
		return PostAction[UD]{}, nil, &InvalidTagError{Entity: "post action", Tag: tag}
	}
}

func (a ClusterAssign) encodedLen() int {
	return condLen(a.Cond.Kind) + a.Choice.encodedLen()
}

func (a ClusterAssign) encodeBinary(area []byte) []byte {
	area = putCond(area, a.Cond.Kind, a.Cond.Threshold, "assign cond")
	return a.Choice.encodeBinary(area)
}

func parseClusterAssign(data []byte) (ClusterAssign, []byte, error) {
	condKind, threshold, data, err := parseCond(data, "assign cond")
	if err != nil {
		return ClusterAssign{}, nil, err
	}
	choice, data, err := parseClusterChoice(data)
	if err != nil {
		return ClusterAssign{}, nil, err
	}
	cond := AssignCond{Kind: condKind, Threshold: threshold}
	return ClusterAssign{Cond: cond, Choice: choice}, data, nil
}

// InsertCond and AssignCond share one wire shape: a tag byte, plus the
// threshold for CondBestSimLessThan.
func condLen(kind CondKind) int {
	switch kind {
	case CondAlways:
		return 1
	case CondBestSimLessThan:
		return 1 + 8
	default:
		panic(badKind("cond", uint8(kind)))
	}
}

func putCond(area []byte, kind CondKind, threshold float64, entity string) []byte {
	area = putTag(area, byte(kind))
	switch kind {
	case CondAlways:
		return area
	case CondBestSimLessThan:
		return putF64(area, threshold)
	default:
		panic(badKind(entity, uint8(kind)))
	}
}

func parseCond(data []byte, entity string) (CondKind, float64, []byte, error) {
	tag, data, err := parseTag(data)
	if err != nil {
		return 0, 0, nil, err
	}
	switch CondKind(tag) {
	case CondAlways:
		return CondAlways, 0, data, nil
	case CondBestSimLessThan:
		threshold, data, err := parseF64(data)
		if err != nil {
			return 0, 0, nil, err
		}
		return CondBestSimLessThan, threshold, data, nil
	default:
		return 0, 0, nil, &InvalidTagError{Entity: entity, Tag: tag}
	}
}

func (ch ClusterChoice) encodedLen() int {
	switch ch.Kind {
	case ChoiceServer:
		return 1
	case ChoiceClient:
		return 1 + 8
	default:
		panic(badKind("cluster choice", uint8(ch.Kind)))
	}
}

func (ch ClusterChoice) encodeBinary(area []byte) []byte {
	area = putTag(area, byte(ch.Kind))
	switch ch.Kind {
	case ChoiceServer:
		return area
	case ChoiceClient:
		return putU64(area, ch.ClusterID)
	default:
		panic(badKind("cluster choice", uint8(ch.Kind)))
	}
}

func parseClusterChoice(data []byte) (ClusterChoice, []byte, error) {
	tag, data, err := parseTag(data)
	if err != nil {
		return ClusterChoice{}, nil, err
	}
	switch ChoiceKind(tag) {
	case ChoiceServer:
		return ServerChoice(), data, nil
	case ChoiceClient:
		id, data, err := parseU64(data)
		if err != nil {
			return ClusterChoice{}, nil, err
		}
		return ClientChoice(id), data, nil
	default:
		return ClusterChoice{}, nil, &InvalidTagError{Entity: "cluster choice", Tag: tag}
	}
}

func (r LookupResult[UD]) encodedLen(c PayloadCodec[UD]) int {
	switch r.Kind {
	case ResultEmptySet:
		return 1
	case ResultBest:
		return 1 + r.Best.encodedLen(c)
	case ResultNeighbours:
		return 1 + workloadLen(r.Neighbours, func(m Match[UD]) int {
			return m.encodedLen(c)
		})
	case ResultError:
		return 1 + stringLen(r.Err)
	default:
		panic(badKind("lookup result", uint8(r.Kind)))
	}
}

func (r LookupResult[UD]) encodeBinary(area []byte, c PayloadCodec[UD]) []byte {
	area = putTag(area, byte(r.Kind))
	switch r.Kind {
	case ResultEmptySet:
		return area
	case ResultBest:
		return r.Best.encodeBinary(area, c)
	case ResultNeighbours:
		return putWorkload(area, r.Neighbours, func(area []byte, m Match[UD]) []byte {
			return m.encodeBinary(area, c)
		})
	case ResultError:
		return putString(area, r.Err)
	default:
		panic(badKind("lookup result", uint8(r.Kind)))
	}
}

func parseLookupResult[UD any](data []byte, c PayloadCodec[UD]) (LookupResult[UD], []byte, error) {
	tag, data, err := parseTag(data)
	if err != nil {
		return LookupResult[UD]{}, nil, err
	}
	switch LookupResultKind(tag) {
	case ResultEmptySet:
		return EmptySet[UD](), data, nil
	case ResultBest:
		m, data, err := parseMatch(data, c)
		if err != nil {
			return LookupResult[UD]{}, nil, err
		}
		return Best(m), data, nil
	case ResultNeighbours:
		w, data, err := parseWorkload(data, func(data []byte) (Match[UD], []byte, error) {
			return parseMatch(data, c)
		})
		if err != nil {
			return LookupResult[UD]{}, nil, err
		}
		return Neighbours(w), data, nil
	case ResultError:
		message, data, err := parseString(data)
		if err != nil {
			return LookupResult[UD]{}, nil, err
		}
		return LookupError[UD](message), data, nil
	default:
		return LookupResult[UD]{}, nil, &InvalidTagError{Entity: "lookup result", Tag: tag}
	}
}

func (m Match[UD]) encodedLen(c PayloadCodec[UD]) int {
	return 8 + 8 + c.EncodedLen(m.UserData)
}

func (m Match[UD]) encodeBinary(area []byte, c PayloadCodec[UD]) []byte {
	area = putU64(area, m.ClusterID)
	area = putF64(area, m.Similarity)
	return c.EncodeBinary(area, m.UserData)
}

func parseMatch[UD any](data []byte, c PayloadCodec[UD]) (Match[UD], []byte, error) {
	clusterID, data, err := parseU64(data)
	if err != nil {
		return Match[UD]{}, nil, err
	}
	similarity, data, err := parseF64(data)
	if err != nil {
		return Match[UD]{}, nil, err
	}
	userData, data, err := c.DecodeBinary(data)
	if err != nil {
		return Match[UD]{}, nil, err
	}
	return Match[UD]{ClusterID: clusterID, Similarity: similarity, UserData: userData}, data, nil
}

// Primitive writers. Each writes at the front of area and returns the
// tail; an undersized area panics per the encode contract.

func putTag(area []byte, tag byte) []byte {
	area[0] = tag
	return area[1:]
}

func putU32(area []byte, v uint32) []byte {
	binary.LittleEndian.PutUint32(area, v)
	return area[4:]
}

func putU64(area []byte, v uint64) []byte {
	binary.LittleEndian.PutUint64(area, v)
	return area[8:]
}

func putF64(area []byte, v float64) []byte {
	return putU64(area, math.Float64bits(v))
}

func putString(area []byte, s string) []byte {
	area = putU32(area, uint32(len(s)))
	copy(area, s)
	return area[len(s):]
}

func stringLen(s string) int { return 4 + len(s) }

// Primitive readers. Each consumes from the front of data and returns the
// rest, failing with ErrUnexpectedEOF on a short buffer.

func parseTag(data []byte) (byte, []byte, error) {
	if len(data) < 1 {
		return 0, nil, ErrUnexpectedEOF
	}
	return data[0], data[1:], nil
}

func parseU32(data []byte) (uint32, []byte, error) {
	if len(data) < 4 {
		return 0, nil, ErrUnexpectedEOF
	}
	return binary.LittleEndian.Uint32(data), data[4:], nil
}

func parseU64(data []byte) (uint64, []byte, error) {
	if len(data) < 8 {
		return 0, nil, ErrUnexpectedEOF
	}
	return binary.LittleEndian.Uint64(data), data[8:], nil
}

func parseF64(data []byte) (float64, []byte, error) {
	bits, data, err := parseU64(data)
	if err != nil {
		return 0, nil, err
	}
	return math.Float64frombits(bits), data, nil
}

func parseString(data []byte) (string, []byte, error) {
	n, data, err := parseU32(data)
	if err != nil {
		return "", nil, err
	}
	if uint64(len(data)) < uint64(n) {
		return "", nil, ErrUnexpectedEOF
	}
	raw := data[:n]
	if !utf8.Valid(raw) {
		return "", nil, &UTF8Error{Offset: invalidUTF8Offset(raw), Len: int(n)}
	}
	return string(raw), data[n:], nil
}

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

func badKind(entity string, kind uint8) string {
	return fmt.Sprintf("proto: cannot encode %s with invalid kind %d", entity, kind)
}
