package articles

import "errors"

var (
	// ErrLoadFailed 로컬 저장소에서 게시글 목록을 읽어들이지 못한 경우
	ErrLoadFailed = errors.New("게시글 목록을 읽어들일 수 없습니다")

	// ErrLoadSuperseded 더 최근에 시작된 목록 갱신 요청이 있어 결과를 반영하지 않은 경우
	ErrLoadSuperseded = errors.New("더 최근의 목록 갱신 요청으로 결과가 무시되었습니다")

	// ErrMutationFailed 로컬 저장소 또는 카운터 반영이 실패하여 화면 상태를 되돌린 경우
	ErrMutationFailed = errors.New("게시글 상태 변경이 실패하였습니다")
)
