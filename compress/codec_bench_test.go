package compress

import (
	"fmt"
	"testing"
)

func BenchmarkCodec_Compress(b *testing.B) {
	for name, codec := range allCodecs() {
		for _, events := range []int{100, 3200} {
			payload := eventPayload(events)
			b.Run(fmt.Sprintf("%s/%dev", name, events), func(b *testing.B) {
				b.ReportAllocs()
				b.SetBytes(int64(len(payload)))

				for b.Loop() {
					if _, err := codec.Compress(payload); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkCodec_Decompress(b *testing.B) {
	for name, codec := range allCodecs() {
		payload := eventPayload(3200)
		packed, err := codec.Compress(payload)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(payload)))

			for b.Loop() {
				if _, err := codec.Decompress(packed); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
