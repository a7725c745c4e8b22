package relay

import (
	"io"

	"go.ztx.dev/core/types"
)

func withEncoder(w io.Writer, fn func(*types.Encoder)) error {
	e := types.NewEncoder(w)
	fn(e)
	return e.Flush()
}

func withDecoder(r io.Reader, maxLen int, fn func(*types.Decoder)) error {
	d := types.NewDecoder(io.LimitedReader{R: r, N: int64(maxLen)})
	fn(d)
	return d.Err()
}

func (h *Header) encodeTo(e *types.Encoder) {
	h.GenesisID.EncodeTo(e)
	e.Write(h.UniqueID[:])
	e.WriteString(h.NetAddress)
}

func (h *Header) decodeFrom(d *types.Decoder) {
	h.GenesisID.DecodeFrom(d)
	d.Read(h.UniqueID[:])
	h.NetAddress = d.ReadString()
}

// An RPCID identifies an RPC on the wire.
type RPCID [16]byte

// String implements fmt.Stringer.
func (id RPCID) String() string {
	for i := range id {
		if id[i] == 0 {
			return string(id[:i])
		}
	}
	return string(id[:])
}

func newRPCID(name string) (id RPCID) {
	copy(id[:], name)
	return
}

func (id *RPCID) encodeTo(e *types.Encoder)   { e.Write(id[:]) }
func (id *RPCID) decodeFrom(d *types.Decoder) { d.Read(id[:]) }

var (
	idShareNodes       = newRPCID("ShareNodes")
	idRelayTransaction = newRPCID("RelayTransaction")
	idSendTransaction  = newRPCID("SendTransaction")
)

func idForObject(o object) RPCID {
	switch o.(type) {
	case *RPCShareNodes:
		return idShareNodes
	case *RPCRelayTransaction:
		return idRelayTransaction
	case *RPCSendTransaction:
		return idSendTransaction
	default:
		panic("unhandled object type")
	}
}

func objectForID(id RPCID) object {
	switch id {
	case idShareNodes:
		return new(RPCShareNodes)
	case idRelayTransaction:
		return new(RPCRelayTransaction)
	case idSendTransaction:
		return new(RPCSendTransaction)
	default:
		return nil
	}
}

type object interface {
	encodeRequest(*types.Encoder)
	decodeRequest(*types.Decoder)
	maxRequestLen() int
	encodeResponse(*types.Encoder)
	decodeResponse(*types.Decoder)
	maxResponseLen() int
}

// RPCShareNodes requests a list of potential peers.
type RPCShareNodes struct {
	Peers []string
}

func (r *RPCShareNodes) encodeRequest(*types.Encoder) {}
func (r *RPCShareNodes) decodeRequest(*types.Decoder) {}
func (r *RPCShareNodes) maxRequestLen() int           { return 0 }

func (r *RPCShareNodes) encodeResponse(e *types.Encoder) {
	e.WriteUint64(uint64(len(r.Peers)))
	for i := range r.Peers {
		e.WriteString(r.Peers[i])
	}
}

func (r *RPCShareNodes) decodeResponse(d *types.Decoder) {
	r.Peers = make([]string, d.ReadUint64())
	for i := range r.Peers {
		r.Peers[i] = d.ReadString()
	}
}

func (r *RPCShareNodes) maxResponseLen() int { return 100 * 128 }

// RPCRelayTransaction relays a transaction to the peer.
type RPCRelayTransaction struct {
	Transaction types.Transaction
}

func (r *RPCRelayTransaction) encodeRequest(e *types.Encoder) { r.Transaction.EncodeTo(e) }
func (r *RPCRelayTransaction) decodeRequest(d *types.Decoder) { r.Transaction.DecodeFrom(d) }
func (r *RPCRelayTransaction) maxRequestLen() int             { return 5e6 }

func (r *RPCRelayTransaction) encodeResponse(*types.Encoder) {}
func (r *RPCRelayTransaction) decodeResponse(*types.Decoder) {}
func (r *RPCRelayTransaction) maxResponseLen() int           { return 0 }

// RPCSendTransaction requests a transaction by ID.
type RPCSendTransaction struct {
	ID          types.TransactionID
	Transaction types.Transaction
}

func (r *RPCSendTransaction) encodeRequest(e *types.Encoder) { r.ID.EncodeTo(e) }
func (r *RPCSendTransaction) decodeRequest(d *types.Decoder) { r.ID.DecodeFrom(d) }
func (r *RPCSendTransaction) maxRequestLen() int             { return 40 }

func (r *RPCSendTransaction) encodeResponse(e *types.Encoder) { r.Transaction.EncodeTo(e) }
func (r *RPCSendTransaction) decodeResponse(d *types.Decoder) { r.Transaction.DecodeFrom(d) }
func (r *RPCSendTransaction) maxResponseLen() int             { return 5e6 }
