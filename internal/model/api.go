package model

// AddChainRequest submits a certificate for an SCT. Chain[0] is the leaf, or
// the TBS precertificate when Precert is set.
type AddChainRequest struct {
	Chain   [][]byte `json:"chain"`
	Precert bool     `json:"precert"`
}

type AddChainResponse struct {
	SCTVersion uint8  `json:"sct_version"`
	ID         []byte `json:"id"`
	Timestamp  uint64 `json:"timestamp"`
	Extensions []byte `json:"extensions"`
	Signature  []byte `json:"signature"`
}

type PublishSTHRequest struct {
	TreeSize       uint64 `json:"tree_size"`
	SHA256RootHash []byte `json:"sha256_root_hash"`
}

type GetSTHResponse struct {
	TreeSize          uint64 `json:"tree_size"`
	Timestamp         uint64 `json:"timestamp"`
	SHA256RootHash    []byte `json:"sha256_root_hash"`
	TreeHeadSignature []byte `json:"tree_head_signature"`
}

type VerifySCTRequest struct {
	Timestamp   uint64 `json:"timestamp"`
	EntryType   uint16 `json:"entry_type"`
	Certificate []byte `json:"certificate"`
	Signature   []byte `json:"signature"`
}

type VerifySTHRequest = GetSTHResponse

type VerifyResponse struct {
	Result string `json:"result"`
}
