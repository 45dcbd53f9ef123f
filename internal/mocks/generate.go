package mocks

//go:generate mockery --name ListingStore --srcpkg github.com/corsa-lab/corsa-api/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
