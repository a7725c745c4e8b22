// Package relay implements the peer-to-peer protocol that wallets use to
// exchange transactions.
package relay

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.sia.tech/mux"
	"go.ztx.dev/core/types"
	"lukechampine.com/frand"
)

// A UniqueID is a randomly-generated nonce that helps prevent self-connections
// and double-connections.
type UniqueID [8]byte

// GenerateUniqueID returns a random UniqueID.
func GenerateUniqueID() (id UniqueID) {
	frand.Read(id[:])
	return
}

// A Header contains various peer metadata which is exchanged during the relay
// handshake.
type Header struct {
	GenesisID  types.Digest
	UniqueID   UniqueID
	NetAddress string
}

func validateHeader(ours, theirs Header) error {
	if theirs.GenesisID != ours.GenesisID {
		return errors.New("peer is on a different network")
	} else if theirs.UniqueID == ours.UniqueID {
		return errors.New("peer has same unique ID as us")
	}
	return nil
}

// A Peer is a connected relay peer.
type Peer struct {
	Addr    string
	Inbound bool
	Version string
	mux     *mux.Mux
	mu      sync.Mutex
	err     error
}

// String implements fmt.Stringer.
func (p *Peer) String() string {
	if p.Inbound {
		return "<-" + p.Addr
	}
	return "->" + p.Addr
}

// Err returns the error that caused the peer to disconnect, if any.
func (p *Peer) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// SetErr sets the peer's disconnection error.
func (p *Peer) SetErr(err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		p.err = err
		p.mux.Close()
	}
	return p.err
}

// Close closes the peer connection.
func (p *Peer) Close() error {
	return p.mux.Close()
}

// An RPCHandler handles RPCs received from a peer.
type RPCHandler interface {
	PeersForShare() []string
	Transaction(id types.TransactionID) (types.Transaction, error)
	RelayTransaction(txn types.Transaction, origin *Peer)
}

// HandleRPC handles an RPC received from the peer.
func (p *Peer) HandleRPC(id RPCID, stream net.Conn, h RPCHandler) error {
	switch r := objectForID(id).(type) {
	case *RPCShareNodes:
		r.Peers = h.PeersForShare()
		return withEncoder(stream, r.encodeResponse)
	case *RPCRelayTransaction:
		if err := withDecoder(stream, r.maxRequestLen(), r.decodeRequest); err != nil {
			return err
		}
		h.RelayTransaction(r.Transaction, p)
		return nil
	case *RPCSendTransaction:
		err := withDecoder(stream, r.maxRequestLen(), r.decodeRequest)
		if err != nil {
			return err
		}
		r.Transaction, err = h.Transaction(r.ID)
		if err != nil {
			return err
		}
		return withEncoder(stream, r.encodeResponse)
	default:
		return fmt.Errorf("unrecognized RPC: %q", id)
	}
}

func (p *Peer) callRPC(r object, timeout time.Duration) error {
	s := p.mux.DialStream()
	defer s.Close()
	s.SetDeadline(time.Now().Add(timeout))
	id := idForObject(r)
	if err := withEncoder(s, id.encodeTo); err != nil {
		return fmt.Errorf("couldn't write RPC ID: %w", err)
	}
	if r.maxRequestLen() > 0 {
		if err := withEncoder(s, r.encodeRequest); err != nil {
			return fmt.Errorf("couldn't write request: %w", err)
		}
	}
	if r.maxResponseLen() > 0 {
		if err := withDecoder(s, r.maxResponseLen(), r.decodeResponse); err != nil {
			return fmt.Errorf("couldn't read response: %w", err)
		}
	}
	return nil
}

// ShareNodes requests a list of potential peers from the peer.
func (p *Peer) ShareNodes(timeout time.Duration) ([]string, error) {
	r := RPCShareNodes{}
	err := p.callRPC(&r, timeout)
	return r.Peers, err
}

// SendTransaction requests a transaction from the peer.
func (p *Peer) SendTransaction(id types.TransactionID, timeout time.Duration) (types.Transaction, error) {
	r := RPCSendTransaction{ID: id}
	err := p.callRPC(&r, timeout)
	return r.Transaction, err
}

// RelayTransaction relays a transaction to the peer.
func (p *Peer) RelayTransaction(txn types.Transaction, timeout time.Duration) error {
	return p.callRPC(&RPCRelayTransaction{Transaction: txn}, timeout)
}

// AcceptRPC accepts an RPC initiated by the peer.
func (p *Peer) AcceptRPC() (RPCID, net.Conn, error) {
	s, err := p.mux.AcceptStream()
	if err != nil {
		return RPCID{}, nil, err
	}
	s.SetDeadline(time.Now().Add(5 * time.Second))
	var id RPCID
	if err := withDecoder(s, 16, id.decodeFrom); err != nil {
		s.Close()
		return RPCID{}, nil, err
	}
	s.SetDeadline(time.Time{})
	return id, s, nil
}

// DialPeer initiates the relay handshake with a peer.
func DialPeer(conn net.Conn, ourHeader Header) (_ *Peer, err error) {
	// exchange versions
	ourVersion := "1.0.0"
	var theirVersion string
	if err := withEncoder(conn, func(e *types.Encoder) { e.WriteString(ourVersion) }); err != nil {
		return nil, fmt.Errorf("could not write our version: %w", err)
	} else if err := withDecoder(conn, 128, func(d *types.Decoder) { theirVersion = d.ReadString() }); err != nil {
		return nil, fmt.Errorf("could not read peer version: %w", err)
	}
	// NOTE: we assume that the peer will be compatible, so we don't bother
	// validating the version

	// exchange headers
	var accept string
	var peerHeader Header
	if err := withEncoder(conn, ourHeader.encodeTo); err != nil {
		return nil, fmt.Errorf("could not write our header: %w", err)
	} else if err := withDecoder(conn, 128, func(d *types.Decoder) { accept = d.ReadString() }); err != nil {
		return nil, fmt.Errorf("could not read peer header acceptance: %w", err)
	} else if accept != "accept" {
		return nil, fmt.Errorf("peer rejected our header: %v", accept)
	} else if err := withDecoder(conn, 40+8+128, peerHeader.decodeFrom); err != nil {
		return nil, fmt.Errorf("could not read peer's header: %w", err)
	} else if err := validateHeader(ourHeader, peerHeader); err != nil {
		withEncoder(conn, func(e *types.Encoder) { e.WriteString(err.Error()) })
		return nil, fmt.Errorf("unacceptable header: %w", err)
	} else if err := withEncoder(conn, func(e *types.Encoder) { e.WriteString("accept") }); err != nil {
		return nil, fmt.Errorf("could not write accept: %w", err)
	}

	// establish mux session
	m, err := mux.DialAnonymous(conn)
	if err != nil {
		return nil, err
	}

	return &Peer{
		Addr:    conn.RemoteAddr().String(),
		Inbound: false,
		Version: theirVersion,
		mux:     m,
	}, nil
}

// AcceptPeer reciprocates the relay handshake with a peer.
func AcceptPeer(conn net.Conn, ourHeader Header) (_ *Peer, err error) {
	// exchange versions
	ourVersion := "1.0.0"
	var theirVersion string
	if err := withDecoder(conn, 128, func(d *types.Decoder) { theirVersion = d.ReadString() }); err != nil {
		return nil, fmt.Errorf("could not read peer version: %w", err)
	} else if err := withEncoder(conn, func(e *types.Encoder) { e.WriteString(ourVersion) }); err != nil {
		return nil, fmt.Errorf("could not write our version: %w", err)
	}
	// NOTE: we assume that the peer will be compatible, so we don't bother
	// validating the version

	// exchange headers
	var accept string
	var peerHeader Header
	if err := withDecoder(conn, 40+8+128, peerHeader.decodeFrom); err != nil {
		return nil, fmt.Errorf("could not read peer's header: %w", err)
	} else if err := validateHeader(ourHeader, peerHeader); err != nil {
		withEncoder(conn, func(e *types.Encoder) { e.WriteString(err.Error()) })
		return nil, fmt.Errorf("unacceptable header: %w", err)
	} else if err := withEncoder(conn, func(e *types.Encoder) { e.WriteString("accept") }); err != nil {
		return nil, fmt.Errorf("could not write accept: %w", err)
	} else if err := withEncoder(conn, ourHeader.encodeTo); err != nil {
		return nil, fmt.Errorf("could not write our header: %w", err)
	} else if err := withDecoder(conn, 128, func(d *types.Decoder) { accept = d.ReadString() }); err != nil {
		return nil, fmt.Errorf("could not read peer header acceptance: %w", err)
	} else if accept != "accept" {
		return nil, fmt.Errorf("peer rejected our header: %v", accept)
	}

	// establish mux session
	m, err := mux.AcceptAnonymous(conn)
	if err != nil {
		return nil, err
	}

	return &Peer{
		Addr:    conn.RemoteAddr().String(),
		Inbound: true,
		Version: theirVersion,
		mux:     m,
	}, nil
}
