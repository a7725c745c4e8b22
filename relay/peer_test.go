package relay

import (
	"net"
	"testing"
	"time"

	"go.ztx.dev/core/types"
)

type testHandler struct {
	peers   []string
	txns    map[types.TransactionID]types.Transaction
	relayed chan types.Transaction
}

func (h *testHandler) PeersForShare() []string { return h.peers }

func (h *testHandler) Transaction(id types.TransactionID) (types.Transaction, error) {
	return h.txns[id], nil
}

func (h *testHandler) RelayTransaction(txn types.Transaction, origin *Peer) {
	h.relayed <- txn
}

func testTransaction() types.Transaction {
	pkh := types.SinglePkh(types.HashUint64(10))
	seed := types.NewSinglePkhSeed(types.HashUint64(10), 500, types.HashUint64(77), true)
	var seeds types.Seeds
	seeds.Insert(seed)
	var sp types.Spends
	sp.Insert(
		types.NewName(types.HashUint64(1), types.HashUint64(2)),
		types.NewWitnessSpend(types.NewWitness(types.NewPkhCondition(pkh)), seeds, 256),
	)
	return types.NewRawTx(sp).ToTransaction()
}

func handshake(t *testing.T) (*Peer, *Peer) {
	t.Helper()
	genesis := types.HashUint64(0)
	c1, c2 := net.Pipe()
	errCh := make(chan error, 1)
	var inbound *Peer
	go func() {
		var err error
		inbound, err = AcceptPeer(c2, Header{
			GenesisID:  genesis,
			UniqueID:   GenerateUniqueID(),
			NetAddress: "server:9381",
		})
		errCh <- err
	}()
	outbound, err := DialPeer(c1, Header{
		GenesisID:  genesis,
		UniqueID:   GenerateUniqueID(),
		NetAddress: "client:9381",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := <-errCh; err != nil {
		t.Fatal(err)
	}
	return outbound, inbound
}

func serve(t *testing.T, p *Peer, h RPCHandler) {
	t.Helper()
	go func() {
		for {
			id, stream, err := p.AcceptRPC()
			if err != nil {
				return
			}
			go func() {
				defer stream.Close()
				if err := p.HandleRPC(id, stream, h); err != nil {
					t.Errorf("rpc %v: %v", id, err)
				}
			}()
		}
	}()
}

func TestRelayTransaction(t *testing.T) {
	outbound, inbound := handshake(t)
	defer outbound.Close()
	defer inbound.Close()

	txn := testTransaction()
	h := &testHandler{
		peers:   []string{"a:9381", "b:9381"},
		txns:    map[types.TransactionID]types.Transaction{txn.ID: txn},
		relayed: make(chan types.Transaction, 1),
	}
	serve(t, inbound, h)

	peers, err := outbound.ShareNodes(5 * time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if len(peers) != 2 || peers[0] != "a:9381" {
		t.Fatalf("bad peer list: %v", peers)
	}

	if err := outbound.RelayTransaction(txn, 5*time.Second); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-h.relayed:
		if got.ToRawTx().CalcID() != txn.ID {
			t.Fatal("relayed transaction does not match")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler never saw the transaction")
	}

	got, err := outbound.SendTransaction(txn.ID, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if got.ToRawTx().CalcID() != txn.ID {
		t.Fatal("requested transaction does not match")
	}
}

func TestHandshakeRejectsWrongNetwork(t *testing.T) {
	c1, c2 := net.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		AcceptPeer(c2, Header{
			GenesisID:  types.HashUint64(1),
			UniqueID:   GenerateUniqueID(),
			NetAddress: "server:9381",
		})
	}()
	_, err := DialPeer(c1, Header{
		GenesisID:  types.HashUint64(2),
		UniqueID:   GenerateUniqueID(),
		NetAddress: "client:9381",
	})
	if err == nil {
		t.Fatal("expected handshake to fail across networks")
	}
	<-done
}
