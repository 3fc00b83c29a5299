package repository

import (
	"encoding/base64"
	"strconv"
)

const (
	DefaultPageNum = 10
	PageMinNum     = 5
	PageMaxNum     = 30
)

// PageVerify clamps a requested page size into [PageMinNum, PageMaxNum].
func PageVerify(num *int64) {
	if *num <= 0 {
		*num = DefaultPageNum
		return
	}
	*num = min(max(*num, PageMinNum), PageMaxNum)
}

// DecodeCursor will decode cursor from user for mysql
func DecodeCursor(encoded string) (int64, error) {
	byt, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(string(byt), 10, 64)
}

// EncodeCursor will encode cursor from mysql to user
func EncodeCursor(id int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(id, 10)))
}
